package config

import (
	"github.com/xyproto/env/v2"

	"github.com/roach88/robopost/internal/post"
)

// Settings are the process-level defaults that are not part of a backend
// config.
type Settings struct {
	OutDir string
	Viewer string
	DBPath string

	// UploadCommand is the external program used to send files to a
	// controller. User and Pass are handed to it.
	UploadCommand string
	User          string
	Pass          string
}

// FromEnv reads Settings from the environment.
func FromEnv() Settings {
	return Settings{
		OutDir: env.Str("ROBOPOST_OUT", "."),
		Viewer: env.Str("ROBOPOST_VIEWER"),
		DBPath: env.Str("ROBOPOST_DB", "robopost.db"),

		UploadCommand: env.Str("ROBOPOST_UPLOAD"),
		User:          env.Str("ROBOPOST_USER"),
		Pass:          env.Str("ROBOPOST_PASS"),
	}
}

// EnvDefaults returns the backend config keys set in the environment.
// Unset variables are left out so they do not override a file.
func EnvDefaults() map[string]any {
	m := map[string]any{}
	if v := env.Str("ROBOPOST_POST"); v != "" {
		m[post.KeyPost] = v
	}
	if v := env.Str("ROBOPOST_NAME"); v != "" {
		m[post.KeyName] = v
	}
	if n := env.Int("ROBOPOST_AXES", 0); n > 0 {
		m[post.KeyAxes] = n
	}
	return m
}
