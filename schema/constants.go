package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Severity represents the overall health classification of a capacity result.
	Severity string

	// Commitment represents the planning-time commitment class of a work item.
	Commitment string

	// StoreBackend represents the database backend for lifecycle record storage.
	StoreBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All severity levels supported, from worst to best.
const (
	CriticalSeverity Severity = "critical"
	WarningSeverity  Severity = "warning"
	InfoSeverity     Severity = "info"
	SuccessSeverity  Severity = "success"
)

// All commitment classes supported. The class is recorded at planning time
// by the ingestion side; it is never inferred from dates here.
const (
	Committed   Commitment = "committed"
	Uncommitted Commitment = "uncommitted"
	PostPeriod  Commitment = "post_period"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite"
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	JSONBackend       StoreBackend = "json" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	JSONBackend:       {},
}

// ValidCommitments lists all valid commitment classes.
var ValidCommitments = map[Commitment]struct{}{
	Committed:   {},
	Uncommitted: {},
	PostPeriod:  {},
}
