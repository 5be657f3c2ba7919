package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habithub"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habithub"
	DefaultConfigPath  = "~/.config/habithub/habithub.db"
	ConfigFileName     = "config"
	EnvPrefix          = "HABITHUB"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is a fixed-width UTC layout, so stored timestamps sort lexically in time order
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	// Habit constraints
	MinNameLength     = 3
	MinTargetDays     = 1
	MaxTargetDays     = 365
	DefaultTargetDays = 30

	// DefaultWindowDays is the trailing window used by completion rate and history
	DefaultWindowDays = 30
	// WeekSummaryDays is the number of days shown in the weekly overview
	WeekSummaryDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habithub-"
	BackupFileSuffix = ".json.zst"

	// Export constants
	ExportVersion      = "1.0"
	ImportedHabitName  = "Imported habit"
	CompressedFileExt  = ".zst"
	DiskvLocationExt   = ".kv"
	PostgresURLPrefix  = "postgres://"
	PostgresURLPrefix2 = "postgresql://"
)

// Session States
const (
	StateToday SessionState = iota
	StateAddHabit
	StateStats
	StateConfirmDelete
)
