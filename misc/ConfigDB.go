package misc

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// configDB is the singleton SQLite database for configuration.
var (
	configDB   *sql.DB
	configOnce sync.Once
)

// configDefault defines a single default config entry.
type configDefault struct {
	Section  string
	Key      string
	Value    string
	Required bool   // if true, value must be set by user (empty default)
	Label    string // user-friendly display name (used in error messages)
}

// allDefaults lists every known config key with its default value.
// Required entries have empty Value and Required=true — the system inserts
// them with empty value on first run so the user knows to fill them.
var allDefaults = []configDefault{
	// [misc]
	{Section: "misc", Key: "DEBUG", Value: "false"},
	{Section: "misc", Key: "QueueDepth", Value: "8"},

	// [main_setting] — LLM endpoint
	{Section: "main_setting", Key: "BASE_URL", Value: "", Required: true, Label: "API base URL (BASE_URL)"},
	{Section: "main_setting", Key: "OPENAI_API_KEY", Value: "", Required: true, Label: "API key (OPENAI_API_KEY)"},
	{Section: "main_setting", Key: "MODEL", Value: "", Required: true, Label: "model name (MODEL)"},
	{Section: "main_setting", Key: "MaxTokens", Value: "256"},
	{Section: "main_setting", Key: "HTTPTimeout", Value: "60"},

	// [web]
	{Section: "web", Key: "LISTEN_ADDR", Value: "127.0.0.1:8310"},
}

// initConfigDB opens (or creates) the SQLite config database and inserts
// default rows for any key that does not yet exist.
func initConfigDB() {
	configOnce.Do(func() {
		dataDir := "./data"
		if env := os.Getenv("FUNCCHAT_DATA_DIR"); env != "" {
			dataDir = env
		}
		absDir, _ := filepath.Abs(dataDir)
		if err := os.MkdirAll(absDir, 0755); err != nil {
			panic(fmt.Sprintf("cannot create data dir %s: %v", absDir, err))
		}
		dbPath := filepath.Join(absDir, "FuncChat.db")

		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			panic(fmt.Sprintf("cannot open config db %s: %v", dbPath, err))
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		_, err = db.Exec(`
			PRAGMA journal_mode=WAL;
			CREATE TABLE IF NOT EXISTS config (
				section TEXT NOT NULL,
				key     TEXT NOT NULL,
				value   TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (section, key)
			);
		`)
		if err != nil {
			panic(fmt.Sprintf("cannot create config table: %v", err))
		}

		stmt, err := db.Prepare(`INSERT OR IGNORE INTO config (section, key, value) VALUES (?, ?, ?)`)
		if err != nil {
			panic(fmt.Sprintf("cannot prepare default insert: %v", err))
		}
		defer stmt.Close()
		for _, d := range allDefaults {
			_, _ = stmt.Exec(d.Section, d.Key, d.Value)
		}

		configDB = db
	})
}

// CheckRequiredConfig returns a list of missing required config entries.
// Returns nil if all required config is set.
func CheckRequiredConfig() []string {
	var missing []string
	for _, d := range allDefaults {
		if !d.Required {
			continue
		}
		val := strings.TrimSpace(dbGet(d.Section, d.Key))
		if val == "" {
			if d.Label != "" {
				missing = append(missing, d.Label)
			} else {
				missing = append(missing, d.Section+"."+d.Key)
			}
		}
	}
	return missing
}

// dbGet reads a single config value from SQLite.
// Returns empty string if not found.
func dbGet(section, key string) string {
	initConfigDB()
	var value string
	err := configDB.QueryRow(`SELECT value FROM config WHERE section = ? AND key = ?`, section, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// dbSet writes a single config value to SQLite.
func dbSet(section, key, value string) error {
	initConfigDB()
	_, err := configDB.Exec(`INSERT INTO config (section, key, value) VALUES (?, ?, ?)
		ON CONFLICT(section, key) DO UPDATE SET value = excluded.value`, section, key, value)
	return err
}
