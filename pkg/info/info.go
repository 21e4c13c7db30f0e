package info

var (
	// Version of the service
	Version = "<todo>"
	// Commit in git in short format
	Commit = "<todo>"
	// GoVersion info on build moment
	GoVersion = "<todo>"
	// BuildDate is date and time in format +%Y-%m-%d_%H:%M:%S
	BuildDate = "<todo>"
)

type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	BuildDate string `json:"build_date"`
}

// New returns service info
func New(name string) *Info {
	return &Info{
		Name:      name,
		Version:   Version,
		Commit:    Commit,
		GoVersion: GoVersion,
		BuildDate: BuildDate,
	}
}
