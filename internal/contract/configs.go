package contract

import (
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/flowlens/flowlens/schema"
)

// Default values for configuration.
const (
	DefaultStuckThresholdDays = 10.0
	DefaultTargetLeadTime     = 30.0
	DefaultLookbackPeriods    = 3
	DefaultMinSampleSize      = 5
	DefaultSystemicMissPct    = 30.0
	DefaultResultLimit        = 25
	DefaultPrecision          = 1
)

// DefaultWorkers is the default number of concurrent workers for the
// historical-baseline fan-out.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateOnlyFormat is accepted for window flags alongside RFC3339.
const DateOnlyFormat = "2006-01-02"

// DefaultStageOrder is the canonical workflow stage ordering used when the
// caller supplies none. Stage names are business policy; organizations
// override them via config.
var DefaultStageOrder = []string{
	"Backlog", "Analysis", "In Progress", "In Review", "Testing", "Done",
}

// DefaultActiveStages is the default value-adding stage subset used for
// flow efficiency. One canonical set applies to all item types.
var DefaultActiveStages = []string{"In Progress", "In Review", "Testing"}

// DefaultDoneStatuses lists statuses that imply completion. A record with
// one of these statuses but no resolution timestamp is malformed.
var DefaultDoneStatuses = []string{"Done", "Closed", "Resolved"}

// SeverityThresholds is the ladder that classifies a capacity result.
// Lead-time bounds are in days, efficiency bounds in percent.
type SeverityThresholds struct {
	LeadTimeCritical float64
	LeadTimeWarning  float64
	LeadTimeInfo     float64
	EffCritical      float64
	EffWarning       float64
	EffInfo          float64
}

// DefaultSeverityThresholds mirrors the standard ladder: lead time >60 or
// efficiency <30 is critical, >45/<40 warning, >30/<50 info, else success.
var DefaultSeverityThresholds = SeverityThresholds{
	LeadTimeCritical: 60,
	LeadTimeWarning:  45,
	LeadTimeInfo:     30,
	EffCritical:      30,
	EffWarning:       40,
	EffInfo:          50,
}

// Config holds the validated runtime configuration for an analysis. All
// thresholds, stage sets and lookbacks travel through this struct per call;
// the core never reads the environment or any global state.
type Config struct {
	Scope  string
	Period string
	Window schema.TimeWindow

	// PeriodDays is the expected planning-period duration used by the
	// capacity model (e.g. 84 for a 12-week PI).
	PeriodDays float64

	StageOrder   []string
	ActiveStages []string
	DoneStatuses []string

	StuckThresholdDays float64
	StageThresholds    map[string]float64 // per-stage overrides of StuckThresholdDays
	ExpectedStageDays  map[string]float64 // business-policy expected dwell time per stage

	TargetLeadTimeDays float64
	LookbackPeriods    int
	HistoricalPeriods  []string // labels of prior periods, most recent first
	MinSampleSize      int
	SystemicMissPct    float64
	Severity           SeverityThresholds

	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // terminal width override (0 = auto-detect)
	UseColors   bool

	Backend   schema.StoreBackend
	DBConnect string
	InputFile string // JSON export path for the json backend
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct; ProcessAndValidate turns it
// into a final Config.
type ConfigRawInput struct {
	Scope           string  `mapstructure:"scope"`
	Period          string  `mapstructure:"period"`
	Start           string  `mapstructure:"start"`
	End             string  `mapstructure:"end"`
	PeriodDays      float64 `mapstructure:"period-days"`
	StageOrder      string  `mapstructure:"stage-order"`
	ActiveStages    string  `mapstructure:"active-stages"`
	DoneStatuses    string  `mapstructure:"done-statuses"`
	StuckThreshold  float64 `mapstructure:"stuck-threshold"`
	StageThresholds string  `mapstructure:"stage-thresholds"`
	ExpectedDays    string  `mapstructure:"expected-days"`
	TargetLeadTime  float64 `mapstructure:"target-leadtime"`
	Lookback        int     `mapstructure:"lookback"`
	History         string  `mapstructure:"history"`
	MinSample       int     `mapstructure:"min-sample"`
	SystemicMissPct float64 `mapstructure:"systemic-miss-pct"`
	SeverityLead    string  `mapstructure:"severity-leadtime"`
	SeverityEff     string  `mapstructure:"severity-efficiency"`
	Workers         int     `mapstructure:"workers"`
	Limit           int     `mapstructure:"limit"`
	Precision       int     `mapstructure:"precision"`
	Output          string  `mapstructure:"output"`
	OutputFile      string  `mapstructure:"output-file"`
	Width           int     `mapstructure:"width"`
	Color           string  `mapstructure:"color"`
	Backend         string  `mapstructure:"backend"`
	DBConnect       string  `mapstructure:"db-connect"`
	Input           string  `mapstructure:"input"`
}

// ProcessAndValidate populates cfg from raw input, applying defaults and
// failing fast on caller misuse.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.Scope = input.Scope
	cfg.Period = input.Period
	cfg.PeriodDays = input.PeriodDays

	start, err := ParseTimeFlag(input.Start)
	if err != nil {
		return NewConfigError("start", err.Error())
	}
	end, err := ParseTimeFlag(input.End)
	if err != nil {
		return NewConfigError("end", err.Error())
	}
	cfg.Window = schema.TimeWindow{Start: start, End: end, Label: input.Period}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return NewConfigError("window", "end must be after start")
	}

	cfg.StageOrder = splitList(input.StageOrder, DefaultStageOrder)
	cfg.ActiveStages = splitList(input.ActiveStages, DefaultActiveStages)
	cfg.DoneStatuses = splitList(input.DoneStatuses, DefaultDoneStatuses)

	cfg.StuckThresholdDays = input.StuckThreshold
	if cfg.StuckThresholdDays < 0 {
		return NewConfigError("stuck-threshold", "must not be negative")
	}
	if cfg.StuckThresholdDays == 0 {
		cfg.StuckThresholdDays = DefaultStuckThresholdDays
	}

	cfg.StageThresholds, err = parseStageValueList(input.StageThresholds)
	if err != nil {
		return NewConfigError("stage-thresholds", err.Error())
	}
	cfg.ExpectedStageDays, err = parseStageValueList(input.ExpectedDays)
	if err != nil {
		return NewConfigError("expected-days", err.Error())
	}

	cfg.TargetLeadTimeDays = input.TargetLeadTime
	if cfg.TargetLeadTimeDays <= 0 {
		cfg.TargetLeadTimeDays = DefaultTargetLeadTime
	}

	cfg.LookbackPeriods = input.Lookback
	if cfg.LookbackPeriods < 0 {
		return NewConfigError("lookback", "must not be negative")
	}
	if cfg.LookbackPeriods == 0 {
		cfg.LookbackPeriods = DefaultLookbackPeriods
	}
	cfg.HistoricalPeriods = splitList(input.History, nil)

	cfg.MinSampleSize = input.MinSample
	if cfg.MinSampleSize <= 0 {
		cfg.MinSampleSize = DefaultMinSampleSize
	}
	cfg.SystemicMissPct = input.SystemicMissPct
	if cfg.SystemicMissPct <= 0 {
		cfg.SystemicMissPct = DefaultSystemicMissPct
	}
	cfg.Severity = DefaultSeverityThresholds
	if input.SeverityLead != "" {
		lead, err := parseSeverityTriple(input.SeverityLead)
		if err != nil {
			return NewConfigError("severity-leadtime", err.Error())
		}
		if !(lead[0] > lead[1] && lead[1] > lead[2] && lead[2] > 0) {
			return NewConfigError("severity-leadtime", "bounds must descend critical,warning,info")
		}
		cfg.Severity.LeadTimeCritical = lead[0]
		cfg.Severity.LeadTimeWarning = lead[1]
		cfg.Severity.LeadTimeInfo = lead[2]
	}
	if input.SeverityEff != "" {
		eff, err := parseSeverityTriple(input.SeverityEff)
		if err != nil {
			return NewConfigError("severity-efficiency", err.Error())
		}
		if !(eff[0] < eff[1] && eff[1] < eff[2] && eff[0] >= 0) {
			return NewConfigError("severity-efficiency", "bounds must ascend critical,warning,info")
		}
		cfg.Severity.EffCritical = eff[0]
		cfg.Severity.EffWarning = eff[1]
		cfg.Severity.EffInfo = eff[2]
	}

	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.ResultLimit = input.Limit
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	}
	cfg.Precision = input.Precision
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}

	cfg.Output = schema.OutputMode(input.Output)
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return NewConfigError("output", "unsupported output mode "+input.Output)
	}
	cfg.OutputFile = input.OutputFile
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return NewConfigError("output-file", "parquet output requires --output-file")
	}
	cfg.Width = input.Width
	cfg.UseColors = !strings.EqualFold(input.Color, "no")

	cfg.Backend = schema.StoreBackend(input.Backend)
	if cfg.Backend == "" {
		cfg.Backend = schema.JSONBackend
	}
	if _, ok := schema.ValidStoreBackends[cfg.Backend]; !ok {
		return NewConfigError("backend", "unsupported backend "+input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	cfg.InputFile = input.Input
	if cfg.Backend == schema.JSONBackend && cfg.InputFile == "" {
		return NewConfigError("input", "json backend requires --input")
	}

	return nil
}

// Clone returns a deep copy of the config so derived runs cannot mutate the
// caller's view.
func (c *Config) Clone() *Config {
	clone := *c
	clone.StageOrder = append([]string(nil), c.StageOrder...)
	clone.ActiveStages = append([]string(nil), c.ActiveStages...)
	clone.DoneStatuses = append([]string(nil), c.DoneStatuses...)
	clone.HistoricalPeriods = append([]string(nil), c.HistoricalPeriods...)
	clone.StageThresholds = copyMap(c.StageThresholds)
	clone.ExpectedStageDays = copyMap(c.ExpectedStageDays)
	return &clone
}

// StageThreshold returns the stuck threshold for a stage, honoring any
// per-stage override.
func (c *Config) StageThreshold(stage string) float64 {
	if v, ok := c.StageThresholds[stage]; ok {
		return v
	}
	return c.StuckThresholdDays
}

// IsActiveStage reports whether a stage belongs to the configured
// value-adding set.
func (c *Config) IsActiveStage(stage string) bool {
	for _, s := range c.ActiveStages {
		if s == stage {
			return true
		}
	}
	return false
}

// IsDoneStatus reports whether a status implies completion.
func (c *Config) IsDoneStatus(status string) bool {
	for _, s := range c.DoneStatuses {
		if strings.EqualFold(s, status) {
			return true
		}
	}
	return false
}

func copyMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ParseTimeFlag accepts RFC3339 or date-only values; empty means unset.
func ParseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(DateOnlyFormat, s)
}

// splitList parses a comma-separated list, falling back to defaults when
// the input is empty.
func splitList(s string, defaults []string) []string {
	if strings.TrimSpace(s) == "" {
		return append([]string(nil), defaults...)
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseSeverityTriple parses a "critical,warning,info" numeric ladder.
func parseSeverityTriple(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, NewConfigError("severity ladder", "expected critical,warning,info bounds, got "+s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, NewConfigError("severity ladder", "bad bound "+p)
		}
		out[i] = v
	}
	return out, nil
}

// parseStageValueList parses "Stage=days,Other Stage=days" mappings.
func parseStageValueList(s string) (map[string]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, NewConfigError("stage mapping", "expected Stage=days, got "+pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil || v < 0 {
			return nil, NewConfigError("stage mapping", "bad duration for "+kv[0])
		}
		out[strings.TrimSpace(kv[0])] = v
	}
	return out, nil
}
