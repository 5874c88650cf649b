// Package metrics 记录班次校验与写入的统计数据
package metrics

// Recorder 由 assignment 服务调用
type Recorder interface {
	// ObserveValidation 记录一次校验的结果，outcome 为 "ok" 或错误类型名
	ObserveValidation(op, outcome string)
	// AddWritten 记录某个操作实际写入（或删除）的班次条数
	AddWritten(op string, n int)
	// ObserveWrite 记录一次事务的耗时（秒）与是否成功
	ObserveWrite(op string, seconds float64, success bool)
}

// Nop 丢弃所有数据
type Nop struct{}

var _ Recorder = Nop{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) ObserveValidation(string, string) {}

func (Nop) AddWritten(string, int) {}

func (Nop) ObserveWrite(string, float64, bool) {}
