package game

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// EncodeEvent marshals a GameEvent for the wire.
// A marshalling failure is logged and encoded as "{}".
func EncodeEvent(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).WithField("event_type", ev.Type).Warn("failed to marshal game event")
		return []byte("{}")
	}
	return data
}
