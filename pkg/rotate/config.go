package rotate

// DefaultDatePattern 默认按天轮转
const DefaultDatePattern = "2006-01-02"

// Config 日志轮转配置
type Config struct {
	// Filename 日志文件路径（必填）
	Filename string

	// DatePattern 备份文件名中的时间格式（Go layout），同时决定轮转周期：
	// 格式化结果变化即轮转。例如 "2006-01-02-15" 按小时轮转。默认按天
	DatePattern string

	// MaxAge 保留旧日志文件的最大天数，0 表示不删除
	MaxAge int
}
