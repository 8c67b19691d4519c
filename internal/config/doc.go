// Package config loads backend configuration.
//
// A backend config is a flat option mapping (robot_post, robot_name,
// robot_axes, plus dialect-specific keys) written in CUE, YAML or JSON.
// Every format is validated against the embedded CUE schema #Config, which
// fills defaults and rejects malformed base fields while leaving unknown
// keys untouched.
//
// Environment variables provide defaults below the file:
//
//	ROBOPOST_POST    robot_post
//	ROBOPOST_NAME    robot_name
//	ROBOPOST_AXES    robot_axes
//	ROBOPOST_OUT     output folder for generated programs
//	ROBOPOST_VIEWER  viewer command for show_result
//	ROBOPOST_DB      save catalog database
//	ROBOPOST_UPLOAD  upload command for sending programs to a controller
//	ROBOPOST_USER    controller user handed to the upload command
//	ROBOPOST_PASS    controller password handed to the upload command
package config
