package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string // connection string for the database
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	SQLLogLevel       string // sets the log level for sql subsystem
	LogFormat         string // text vs json
	LogConfig         string // path to log config file
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry, stdout if empty
	SeasonFile        string // season yaml, embedded default if empty
	ProfileFile       string // speed profile yaml, embedded default if empty
	CalendarFile      string // circuit calendar yaml, embedded default if empty
	RaceFile          string // race table csv
	InterpolatedFile  string // interpolated race table csv
	DRSFile           string // DRS event log csv
	WaypointFile      string // track waypoint csv
	SectorFile        string // sector measurement csv
	Watch             bool   // rerun the pipeline when the season file changes
)
