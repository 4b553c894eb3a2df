package config

const (
	// DefaultStorePath is where the JSON highlight store lives.
	DefaultStorePath = "./data/highlights.json"

	// DefaultDigestCount is how many highlights a digest carries.
	DefaultDigestCount = 5

	// DefaultSendSchedule delivers the digest daily at 08:00.
	DefaultSendSchedule = "0 8 * * *"
)
