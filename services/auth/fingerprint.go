package auth

import (
	"time"

	"flock/models"

	"github.com/mileusna/useragent"
)

// UnknownAgent is the sentinel for an absent or unparsable user agent.
// It is a stable value, so two unparsable agents in a row compare equal
// and do not trigger a spurious challenge.
const UnknownAgent = "Unknown"

// Fingerprint identifies the browser and platform a request came from,
// plus the client's network address.
type Fingerprint struct {
	Browser  string
	Platform string
	IP       string
}

// ExtractFingerprint derives a fingerprint from a raw User-Agent string and
// client address. Pure function: the same agent always yields the same
// (browser, platform) pair.
func ExtractFingerprint(rawAgent, ip string) Fingerprint {
	ua := useragent.Parse(rawAgent)

	browser := ua.Name
	if browser == "" {
		browser = UnknownAgent
	}
	platform := ua.OS
	if platform == "" {
		platform = UnknownAgent
	}

	return Fingerprint{Browser: browser, Platform: platform, IP: ip}
}

// Matches reports whether the fingerprint equals the one recorded in a
// previous login event. Comparison is exact string equality on browser
// and platform; the IP is not part of the trust decision.
func (f Fingerprint) Matches(last models.LoginEvent) bool {
	return last.Browser == f.Browser && last.Platform == f.Platform
}

// Event builds an immutable login history entry from the fingerprint.
func (f Fingerprint) Event(at time.Time) models.LoginEvent {
	return models.LoginEvent{
		Timestamp: at,
		Browser:   f.Browser,
		OS:        f.Platform,
		Platform:  f.Platform,
		IP:        f.IP,
	}
}
