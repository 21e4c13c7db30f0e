package service

import (
	svcinfo "github.com/pushgate/pushgate/pkg/info"
)

// Info of the service
func Info() *svcinfo.Info {
	return svcinfo.New("pushgate")
}
