// Package config loads vetta configuration.
//
// Values are layered with Viper, lowest precedence first: built-in defaults,
// config.yml, a .env file (loaded with godotenv), VETTA_* environment
// variables and finally command-line flags that were set explicitly.
//
//	name: vetta
//	logging:
//	  level: info
//	stt:
//	  socket: /tmp/whisper.sock
//	  language: en
//	media:
//	  max_size_mb: 500
//
// The speech socket can also be set with the legacy WHISPER_SOCK variable.
package config
