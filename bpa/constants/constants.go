package constants

// Report status display values. Everything upstream of the report
// writer works with models.OutcomeKind; these strings only exist in
// serialized output.
const StatusFound = "YES"
const StatusNoBackup = "NoBackup"
const StatusError = "Error"

const DefaultAPIBaseURL = "https://api.mysonicwall.com"
const BackupPrefsPath = "/api/product/backupprefs"

const DefaultSerialFile = "serials.txt"
const DefaultReportFile = "backupreport.csv"

// This is set during compilation.
var Version = "latest"
