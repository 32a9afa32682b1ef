package common

import (
	"fmt"
	"runtime"
)

// Maven artifact required on the daemon classpath
type Artifact struct {
	GroupId string
	Id      string
	Version string
}

// FileName is the jar name the artifact materializes as: "{id}-{version}.jar"
func (a Artifact) FileName() string {
	return fmt.Sprintf("%s-%s.jar", a.Id, a.Version)
}

// Host platform category, fixed once for the whole run
type Platform int

const (
	Unix Platform = iota
	Windows
)

// CurrentPlatform classifies the host from its identification string
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Unix
}
