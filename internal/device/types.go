// Package device holds the client-side model of the monitored unit:
// the last-known snapshot cache, the editing lock, and the rules that
// decide which configuration fields are active.
package device

// LoadUpdate carries the 1/5/15 minute load averages of a status poll.
type LoadUpdate struct {
	One     *float64 `json:"1m"`
	Five    *float64 `json:"5m"`
	Fifteen *float64 `json:"15m"`
}

// StatusUpdate is one full status poll. Every field is optional; absent
// fields must not disturb the cached snapshot.
type StatusUpdate struct {
	CPU           *float64    `json:"cpu"`
	Load          *LoadUpdate `json:"load"`
	TempC         *float64    `json:"temp_c"`
	FreqKHz       *float64    `json:"freq_khz"`
	Governor      *string     `json:"governor"`
	FreqMinKHz    *float64    `json:"freq_min_khz"`
	FreqMaxKHz    *float64    `json:"freq_max_khz"`
	UptimeSeconds *float64    `json:"uptime_seconds"`
	ServerTime    *string     `json:"server_time"`
}

// FastUpdate is one message from the high-frequency telemetry stream.
// It only ever carries the fast-changing readings.
type FastUpdate struct {
	TS      string   `json:"ts"`
	CPU     *float64 `json:"cpu"`
	FreqKHz *float64 `json:"freq_khz"`
	TempC   *float64 `json:"temp_c"`
}

// Snapshot is the merged last-known state of the device. TempC carries
// a validity flag because 0°C is a legitimate reading; the other fields
// use sentinel values the formatting layer already treats as unknown.
type Snapshot struct {
	Load1         float64
	Load5         float64
	Load15        float64
	Governor      string
	FreqMinKHz    float64
	FreqMaxKHz    float64
	UptimeSeconds float64
	FreqKHz       float64
	TempC         float64
	TempValid     bool
	CPUPercent    float64
}
