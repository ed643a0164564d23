package constants

// Action represents a user decision recorded against a dose occurrence.
type Action string

// Bucket represents a row of the weekly pillbox grid.
type Bucket string

const (
	AppName           = "pillbox"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/pillbox/pillbox.db"

	DefaultKeyringUser = "database-connection"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is the minute-precision datetime format used by every
	// persisted record and by occurrence identity keys.
	DateTimeFormat = "2006-01-02 15:04"

	// Action constants
	ActionTaken   Action = "taken"
	ActionSkipped Action = "skipped"
	ActionSnoozed Action = "snoozed"

	// Grid buckets
	BucketAM   Bucket = "AM"
	BucketNoon Bucket = "Noon"
	BucketPM   Bucket = "PM"
	BucketBed  Bucket = "Bed"

	// Scheduler defaults
	DefaultTickSeconds       = 10
	DefaultDueWindowSeconds  = 60
	DefaultDueSoonMinutes    = 15
	DefaultSnoozeMinutes     = 10
	DefaultSnoozeKeepDays    = 2
	SummaryWindowDays        = 7
	WatchLockfileName        = "pillbox-watch.lock"
	BackupDirName            = "backups"
	MaxBackups               = 14
)

// Buckets in grid row order.
var BucketOrder = []Bucket{BucketAM, BucketNoon, BucketPM, BucketBed}

// SnoozeChoices are the snooze durations offered by the decision prompt, in minutes.
var SnoozeChoices = []int{5, 10, 15, 30, 60}

// Actions lists every valid log action.
var Actions = []Action{ActionTaken, ActionSkipped, ActionSnoozed}
