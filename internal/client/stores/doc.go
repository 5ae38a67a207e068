// Package stores holds the client-side state of the quiz platform: the
// authenticated session, the user's economy mirror and the catalogs of
// quizzes, shop items and moderation work.
//
// Stores are built once, in dependency order, and passed by reference:
//
//	session := stores.NewSession(ctx, deps, repo)
//	user := stores.NewUser(deps, session)
//	shop := stores.NewShop(deps, user)
//
// Every mutation reaches the server first. Local state changes only after
// the server confirmed it, and economy totals are always the server's
// numbers, installed through User.ApplyWallet which also keeps the session
// identity in step. A failed action leaves committed state untouched and
// returns an *ActionError whose Error() is the message shown to the user.
package stores
