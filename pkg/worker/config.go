package worker

type Config struct {
	// Topic is the app bundle id the provider requires on every notification.
	Topic string

	// CountThreads caps concurrent dispatches; zero means NumCPU.
	CountThreads int
}
