//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
)

// Notify sends a desktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := make(map[string]dbus.Variant)
	for k, v := range opts.hints() {
		hints[k] = dbus.MakeVariant(v)
	}
	obj := conn.Object(notificationsName, notificationsPath)
	return obj.Call(notificationsName+".Notify", 0,
		opts.app(), uint32(0), opts.IconPath, title, body, []string{}, hints, opts.timeout()).Err
}
