package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ParseError      = 4
	BarrierError    = 5
	PublishError    = 6
	PartialSuccess  = 7
)
