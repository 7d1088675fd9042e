package constants

const MissingTokenErr = "an API authorization value is required"
const SerialFileErr = "could not read serial list %s"
const ReportSaveErr = "could not save report to %s"
const RespBodyErr = "failed to read response body: %s"
const RespCodeErr = "request %s has unexpected response code received %d, body '%s'"
