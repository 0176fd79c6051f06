// Package inkwell is the Composition Root for the inkwell notes client.
//
// It connects the session manager and the notes store with the HTTP API and
// the on-disk session state.
//
// A session is obtained with Login or Signup, persisted as a token and a user
// record, and restored on the next start. Notes are fetched and changed
// through a per-view store that only reflects what the server confirmed.
//
// Usage:
//
//	client, err := inkwell.New(ctx, inkwell.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if _, err := client.Session.Login(ctx, "jane@x.com", "secret1"); err != nil {
//		return err
//	}
//
//	notes := client.Notes()
//	list, err := notes.List(ctx)
package inkwell
