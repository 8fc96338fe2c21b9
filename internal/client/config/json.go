package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mkorobov/passdash/internal/flagx"
	"github.com/mkorobov/passdash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL              string         `json:"base_url"`
	SessionToken         string         `json:"session_token"`
	ClipboardClearDelay  timex.Duration `json:"clipboard_clear_delay"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given nothing is loaded. Read or unmarshal errors panic (caller
// should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.BaseURL = jc.BaseURL
	cfg.SessionToken = jc.SessionToken
	cfg.ClipboardClearDelay = time.Duration(jc.ClipboardClearDelay.Duration)
	cfg.SessionCheckInterval = time.Duration(jc.SessionCheckInterval.Duration)
}
