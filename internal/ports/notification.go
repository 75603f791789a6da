package ports

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body, icon string) error
}

// SoundPlayer plays a short completion sound identified by clip.
type SoundPlayer interface {
	Play(clip string) error
}
