package cli

var (
	PrintNotifications = printNotifications
	GetIndexConfig     = getIndexConfig
)
