// Package session keeps server-side sessions and the login state on them.
//
// A Manager creates, loads, saves and rotates sessions in a Store (MemoryStore
// or RedisStore). The host moves the token between requests however it likes
// and attaches the loaded session to the request context with WithSession.
//
// Guard reads that session to log an account in or out:
//
//	s, err := manager.Resume(ctx, tokenFromCookie)
//	if err != nil {
//	    return err
//	}
//	ctx = session.WithSession(ctx, s)
//
//	if err := guard.Login(ctx, acct); err != nil {
//	    return err
//	}
//	// s.Token changed; send it back to the client.
//
// Login and Logout both rotate the token. The logged-in account is stored on
// the session itself, so Current needs no account lookup.
package session
