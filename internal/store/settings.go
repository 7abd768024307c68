package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// LoadSettings reads all settings, substituting the default for any value
// that is missing or does not parse. It never fails.
func (s *Store) LoadSettings() Settings {
	def := DefaultSettings()
	return Settings{
		FocusMinutes:      s.intSetting("focus_minutes", def.FocusMinutes),
		ShortBreakMinutes: s.intSetting("short_break_minutes", def.ShortBreakMinutes),
		LongBreakMinutes:  s.intSetting("long_break_minutes", def.LongBreakMinutes),
		AlarmEnabled:      s.boolSetting("alarm_enabled", def.AlarmEnabled),
		MeditationMinutes: s.intSetting("meditation_minutes", def.MeditationMinutes),
		BreathInSeconds:   s.intSetting("breath_in_seconds", def.BreathInSeconds),
		HoldInSeconds:     s.holdSetting("hold_in_seconds", def.HoldInSeconds),
		BreathOutSeconds:  s.intSetting("breath_out_seconds", def.BreathOutSeconds),
		HoldOutSeconds:    s.holdSetting("hold_out_seconds", def.HoldOutSeconds),
	}
}

// SaveSettings validates and writes every setting. Interval lengths and the
// inhale/exhale phases must be positive; the two hold phases may be zero.
func (s *Store) SaveSettings(set Settings) error {
	if err := validateSettings(set); err != nil {
		return err
	}
	values := map[string]string{
		"focus_minutes":       strconv.Itoa(set.FocusMinutes),
		"short_break_minutes": strconv.Itoa(set.ShortBreakMinutes),
		"long_break_minutes":  strconv.Itoa(set.LongBreakMinutes),
		"alarm_enabled":       boolValue(set.AlarmEnabled),
		"meditation_minutes":  strconv.Itoa(set.MeditationMinutes),
		"breath_in_seconds":   strconv.Itoa(set.BreathInSeconds),
		"hold_in_seconds":     strconv.Itoa(set.HoldInSeconds),
		"breath_out_seconds":  strconv.Itoa(set.BreathOutSeconds),
		"hold_out_seconds":    strconv.Itoa(set.HoldOutSeconds),
	}
	for k, v := range values {
		if err := s.SetSetting(k, v); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return nil
}

func validateSettings(set Settings) error {
	positive := map[string]int{
		"focus length":        set.FocusMinutes,
		"short break length":  set.ShortBreakMinutes,
		"long break length":   set.LongBreakMinutes,
		"meditation duration": set.MeditationMinutes,
		"breathe-in phase":    set.BreathInSeconds,
		"breathe-out phase":   set.BreathOutSeconds,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %d", name, v)
		}
	}
	if set.HoldInSeconds < 0 || set.HoldOutSeconds < 0 {
		return fmt.Errorf("hold phases must not be negative")
	}
	return nil
}

func (s *Store) intSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// holdSetting is like intSetting but allows zero.
func (s *Store) holdSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Store) boolSetting(key string, fallback bool) bool {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	switch v {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	return fallback
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
