// Package version holds build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/kyofu-bot/kyofu/internal/version.Version=1.2.0"
package version

const AppName = "Kyofu"

var (
	Version   = "dev"
	BuildDate = "unknown"
)

func String() string {
	return AppName + " " + Version + " (" + BuildDate + ")"
}
