// Package i18n holds the fixed client messages (generic failure fallbacks and
// success notifications) in English and Polish.
package i18n

import (
	"golang.org/x/text/language"
)

// Message keys.
const (
	ErrLogin            = "err.login"
	ErrRegister         = "err.register"
	ErrProfile          = "err.profile"
	ErrUserStats        = "err.user_stats"
	ErrUpdateProfile    = "err.update_profile"
	ErrDeleteAccount    = "err.delete_account"
	ErrPurchase         = "err.purchase"
	ErrShopItems        = "err.shop_items"
	ErrInventory        = "err.inventory"
	ErrQuizzes          = "err.quizzes"
	ErrQuiz             = "err.quiz"
	ErrCreateQuiz       = "err.create_quiz"
	ErrUpdateQuiz       = "err.update_quiz"
	ErrDeleteQuiz       = "err.delete_quiz"
	ErrSubmit           = "err.submit"
	ErrUsers            = "err.users"
	ErrUpdateUser       = "err.update_user"
	ErrSaveItem         = "err.save_item"
	ErrDeleteItem       = "err.delete_item"
	ErrPending          = "err.pending"
	ErrVerify           = "err.verify"
	ErrReject           = "err.reject"
	ErrPlatformStats    = "err.platform_stats"
	ErrNotAuthenticated = "err.not_authenticated"
	ErrNoProfile        = "err.no_profile"
	ErrPurchaseBusy     = "err.purchase_busy"
	ErrUnavailable      = "err.unavailable"
	ErrEmptyUpdate      = "err.empty_update"

	MsgLoggedIn       = "ok.login"
	MsgRegistered     = "ok.register"
	MsgLoggedOut      = "ok.logout"
	MsgProfileUpdated = "ok.profile_updated"
	MsgAccountDeleted = "ok.account_deleted"
	MsgPurchased      = "ok.purchased"
	MsgQuizCreated    = "ok.quiz_created"
	MsgQuizUpdated    = "ok.quiz_updated"
	MsgQuizDeleted    = "ok.quiz_deleted"
	MsgSubmitted      = "ok.submitted"
	MsgUserUpdated    = "ok.user_updated"
	MsgItemSaved      = "ok.item_saved"
	MsgItemDeleted    = "ok.item_deleted"
	MsgQuizVerified   = "ok.quiz_verified"
	MsgQuizRejected   = "ok.quiz_rejected"
	MsgInventoryStale = "info.inventory_stale"
)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		ErrLogin:            "Login failed",
		ErrRegister:         "Registration failed",
		ErrProfile:          "Could not load the profile",
		ErrUserStats:        "Could not load statistics",
		ErrUpdateProfile:    "Profile update failed",
		ErrDeleteAccount:    "Account deletion failed",
		ErrPurchase:         "Purchase failed",
		ErrShopItems:        "Could not load the shop",
		ErrInventory:        "Could not load the inventory",
		ErrQuizzes:          "Could not load quizzes",
		ErrQuiz:             "Could not load the quiz",
		ErrCreateQuiz:       "Could not create the quiz",
		ErrUpdateQuiz:       "Could not update the quiz",
		ErrDeleteQuiz:       "Could not delete the quiz",
		ErrSubmit:           "Could not submit the result",
		ErrUsers:            "Could not load the user list",
		ErrUpdateUser:       "Could not update the user",
		ErrSaveItem:         "Could not save the shop item",
		ErrDeleteItem:       "Could not delete the shop item",
		ErrPending:          "Could not load quizzes awaiting verification",
		ErrVerify:           "Could not verify the quiz",
		ErrReject:           "Could not reject the quiz",
		ErrPlatformStats:    "Could not load platform statistics",
		ErrNotAuthenticated: "You are not logged in",
		ErrNoProfile:        "No profile loaded",
		ErrPurchaseBusy:     "Another purchase is in progress",
		ErrUnavailable:      "Server unavailable, try again later",
		ErrEmptyUpdate:      "Nothing to update",

		MsgLoggedIn:       "Logged in",
		MsgRegistered:     "Account created",
		MsgLoggedOut:      "Logged out",
		MsgProfileUpdated: "Profile updated",
		MsgAccountDeleted: "Account deleted",
		MsgPurchased:      "Item purchased",
		MsgQuizCreated:    "Quiz created",
		MsgQuizUpdated:    "Quiz updated",
		MsgQuizDeleted:    "Quiz deleted",
		MsgSubmitted:      "Result saved",
		MsgUserUpdated:    "User updated",
		MsgItemSaved:      "Shop item saved",
		MsgItemDeleted:    "Shop item deleted",
		MsgQuizVerified:   "Quiz verified",
		MsgQuizRejected:   "Quiz rejected",
		MsgInventoryStale: "Purchase completed, but the inventory could not be refreshed",
	},
	language.Polish: {
		ErrLogin:            "Błąd logowania",
		ErrRegister:         "Błąd rejestracji",
		ErrProfile:          "Nie udało się pobrać profilu",
		ErrUserStats:        "Nie udało się pobrać statystyk",
		ErrUpdateProfile:    "Błąd podczas aktualizacji",
		ErrDeleteAccount:    "Błąd podczas usuwania konta",
		ErrPurchase:         "Błąd podczas zakupu",
		ErrShopItems:        "Nie udało się pobrać sklepu",
		ErrInventory:        "Błąd pobierania ekwipunku",
		ErrQuizzes:          "Nie udało się pobrać quizów",
		ErrQuiz:             "Nie udało się pobrać quizu",
		ErrCreateQuiz:       "Nie udało się utworzyć quizu",
		ErrUpdateQuiz:       "Nie udało się zaktualizować quizu",
		ErrDeleteQuiz:       "Nie udało się usunąć quizu",
		ErrSubmit:           "Nie udało się zapisać wyniku",
		ErrUsers:            "Nie udało się pobrać listy użytkowników.",
		ErrUpdateUser:       "Błąd edycji użytkownika",
		ErrSaveItem:         "Błąd zapisu w sklepie",
		ErrDeleteItem:       "Błąd usuwania przedmiotu",
		ErrPending:          "Błąd pobierania quizów do weryfikacji",
		ErrVerify:           "Błąd podczas zatwierdzania quizu",
		ErrReject:           "Błąd podczas odrzucania quizu",
		ErrPlatformStats:    "Błąd podczas pobierania statystyk",
		ErrNotAuthenticated: "Nie jesteś zalogowany",
		ErrNoProfile:        "Brak załadowanego profilu",
		ErrPurchaseBusy:     "Trwa inny zakup",
		ErrUnavailable:      "Serwer niedostępny, spróbuj później",
		ErrEmptyUpdate:      "Brak zmian do zapisania",

		MsgLoggedIn:       "Zalogowano",
		MsgRegistered:     "Konto utworzone",
		MsgLoggedOut:      "Wylogowano",
		MsgProfileUpdated: "Profil zaktualizowany",
		MsgAccountDeleted: "Konto usunięte",
		MsgPurchased:      "Przedmiot kupiony",
		MsgQuizCreated:    "Quiz utworzony",
		MsgQuizUpdated:    "Quiz zaktualizowany",
		MsgQuizDeleted:    "Quiz usunięty",
		MsgSubmitted:      "Wynik zapisany",
		MsgUserUpdated:    "Użytkownik zaktualizowany",
		MsgItemSaved:      "Przedmiot zapisany",
		MsgItemDeleted:    "Przedmiot usunięty",
		MsgQuizVerified:   "Quiz zatwierdzony",
		MsgQuizRejected:   "Quiz odrzucony",
		MsgInventoryStale: "Zakup zakończony, ale nie udało się odświeżyć ekwipunku",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Polish})

// Translator resolves message keys for one locale.
type Translator struct {
	tag language.Tag
}

// New picks the closest supported locale for the given BCP 47 tag list
// ("pl", "pl-PL", "en-GB,pl;q=0.8"); unknown or empty input yields English.
func New(locale string) *Translator {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return &Translator{tag: language.English}
	}
	_, idx, _ := matcher.Match(tags...)
	supported := []language.Tag{language.English, language.Polish}
	return &Translator{tag: supported[idx]}
}

// Locale returns the resolved locale.
func (t *Translator) Locale() string {
	return t.tag.String()
}

// T returns the message for key, falling back to English and then to the key
// itself.
func (t *Translator) T(key string) string {
	if t != nil {
		if v, ok := catalog[t.tag][key]; ok {
			return v
		}
	}
	if v, ok := catalog[language.English][key]; ok {
		return v
	}
	return key
}
