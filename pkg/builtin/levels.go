package builtin

import (
	"fmt"
	"strings"

	"github.com/HorseArcher567/octolog/pkg/level"
)

// UtilLoggingLevel is the class name of the java.util.logging level set.
const UtilLoggingLevel = "org.apache.log4j.helpers.UtilLoggingLevel"

// java.util.logging 级别到本地级别的映射
var utilLevels = map[string]level.Level{
	"SEVERE":  level.Error,
	"WARNING": level.Warn,
	"INFO":    level.Info,
	"CONFIG":  level.Info - 2,
	"FINE":    level.Debug,
	"FINER":   level.Debug - 2,
	"FINEST":  level.Trace,
	"ALL":     level.All,
	"OFF":     level.Off,
}

func parseUtilLoggingLevel(token string) (level.Level, error) {
	if l, ok := utilLevels[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("builtin: %q is not a java.util.logging level", token)
}
