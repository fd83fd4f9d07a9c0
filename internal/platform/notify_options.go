package platform

// AppName is reported to the notification service when Options leaves it
// empty.
const AppName = "drawpad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName overrides the sending application name.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Category classifies the notification, e.g. "transfer.complete".
	// Platforms without categories ignore it.
	Category string
	// TimeoutMillis is how long the notification stays up where the platform
	// lets the sender choose. Zero uses five seconds.
	TimeoutMillis int32
}

func (o Options) app() string {
	if o.AppName == "" {
		return AppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return 5000
	}
	return o.TimeoutMillis
}

// hints are the freedesktop hint values the options translate to.
func (o Options) hints() map[string]string {
	h := map[string]string{"desktop-entry": o.app()}
	if o.Category != "" {
		h["category"] = o.Category
	}
	if o.IconPath != "" {
		h["image-path"] = o.IconPath
	}
	return h
}
