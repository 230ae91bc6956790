package constants

// Application identity
const (
	AppID       = "com.appscan.trafficrecorder.client"
	ProjectName = "AppscanTrafficRecorder"
	RepoURL     = "https://github.com/cwtravis/appscan-traffic-recorder-client"
)

// Directory names
const (
	LogsDirName = "logs"
)

// Log file names
const (
	MainLogFileName = "appscan-traffic-recorder.log"
	APILogFileName  = "api.log"
)

// Settings
const (
	SettingsFileExt = ".ini"
)

// Automation API paths
const (
	APIInfoPath                  = "/automation/Info"
	APIStartProxyPath            = "/automation/StartProxy/"
	APIStopProxyPath             = "/automation/StopProxy/"
	APIStopAllProxiesPath        = "/automation/StopAllProxies"
	APICertificatePath           = "/automation/Certificate"
	APITrafficPath               = "/automation/Traffic/"
	APIEncryptDastConfigPath     = "/automation/EncryptDastConfig"
	APIDownloadEncryptedPathBase = "/automation/DownloadEncryptedDastConfig/"
)

// Download file names offered in the save dialogs
const (
	CertificateFileName    = "AppScanTrafficRecorder.cer"
	TrafficFileNamePattern = "traffic_%d.har"
)

// Application version
// Can be overridden at build time using -ldflags="-X appscan-traffic-recorder/internal/constants.AppVersion=..."
var (
	AppVersion = "" // Empty means: take the version from the embedded version.json
)

// UI Theme settings
const (
	// Theme options: "dark", "light", or "default" (follows system theme)
	AppTheme = "default"
)
