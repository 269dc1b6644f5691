package common

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
)

const (
	// SessionName is the cookie holding the dashboard session.
	SessionName = "dashgrid"

	analyticsKey = "analytics_session"
)

// SessionID returns the analytics session of the browser, starting one in
// sink and storing it in the cookie on first use. It must run before
// anything is written to w.
func SessionID(w http.ResponseWriter, r *http.Request, store sessions.Store, sink analytics.Sink) (string, error) {
	// A cookie that no longer decodes yields a fresh session.
	sess, _ := store.Get(r, SessionName)
	if id, ok := sess.Values[analyticsKey].(string); ok && id != "" {
		return id, nil
	}

	id, err := sink.StartSession(r.Context())
	if err != nil {
		return "", err
	}
	sess.Values[analyticsKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
