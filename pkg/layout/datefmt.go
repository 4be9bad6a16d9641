package layout

import (
	"strings"
)

// 命名日期格式
const (
	ISO8601  = "2006-01-02 15:04:05,000"
	Absolute = "15:04:05,000"
	Date     = "02 Jan 2006 15:04:05,000"
)

// DateLayout converts a date option into a Go time layout. Named formats
// (ISO8601, ABSOLUTE, DATE) and SimpleDateFormat patterns such as
// "yyyy-MM-dd HH:mm:ss,SSS" are translated; anything else is used as a Go
// layout verbatim.
func DateLayout(option string) string {
	switch strings.ToUpper(strings.TrimSpace(option)) {
	case "", "ISO8601":
		return ISO8601
	case "ABSOLUTE":
		return Absolute
	case "DATE":
		return Date
	}
	if isJavaPattern(option) {
		return convertJava(option)
	}
	return option
}

func isJavaPattern(s string) bool {
	for _, tok := range []string{"yy", "dd", "HH", "mm", "ss", "SSS"} {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// javaTokens 按字母和重复次数映射到 Go layout
var javaTokens = map[byte][]string{
	// 下标为重复次数-1，超出范围取最后一个
	'y': {"2006", "06", "2006", "2006"},
	'M': {"1", "01", "Jan", "January"},
	'd': {"2", "02"},
	'H': {"15", "15"},
	'h': {"3", "03"},
	'm': {"4", "04"},
	's': {"5", "05"},
	'S': {"0", "00", "000"},
	'a': {"PM"},
	'E': {"Mon", "Mon", "Mon", "Monday"},
	'z': {"MST"},
	'Z': {"-0700"},
}

func convertJava(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); {
		c := p[i]

		// '...' 为字面量，'' 表示单引号
		if c == '\'' {
			end := strings.IndexByte(p[i+1:], '\'')
			if end < 0 {
				b.WriteString(p[i+1:])
				break
			}
			if end == 0 {
				b.WriteByte('\'')
			} else {
				b.WriteString(p[i+1 : i+1+end])
			}
			i += end + 2
			continue
		}

		j := i
		for j < len(p) && p[j] == c {
			j++
		}
		n := j - i

		if forms, ok := javaTokens[c]; ok {
			if n-1 < len(forms) {
				b.WriteString(forms[n-1])
			} else {
				b.WriteString(forms[len(forms)-1])
			}
		} else {
			b.WriteString(p[i:j])
		}
		i = j
	}
	return b.String()
}
