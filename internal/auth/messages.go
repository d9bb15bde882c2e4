package auth

// Client-facing messages for authentication outcomes. The product ships
// with a Russian locale, so the catalog mirrors it; internal errors stay
// English. MsgInvalidCredentials intentionally covers both the unknown
// email and wrong password cases.
const (
	MsgInvalidCredentials = "Неверный email или пароль"
	MsgInactiveUser       = "Учётная запись неактивна"
	MsgMissingToken       = "Отсутствует токен авторизации"
	MsgInvalidToken       = "Невалидный токен авторизации"
	MsgExpiredToken       = "Срок действия токена истёк"
	MsgRevokedToken       = "Токен отозван"
	MsgAlreadyRevoked     = "Токен уже отозван"
	MsgLogoutSuccess      = "Успешный выход из системы"
)

// Message translates a sentinel from this package into the text shown
// to clients. Unknown errors map to the generic invalid-token message
// so that nothing internal leaks through an auth response.
func Message(err error) string {
	switch err {
	case ErrInvalidCredentials:
		return MsgInvalidCredentials
	case ErrAccountInactive:
		return MsgInactiveUser
	case ErrMissingToken:
		return MsgMissingToken
	case ErrTokenExpired:
		return MsgExpiredToken
	case ErrTokenRevoked:
		return MsgRevokedToken
	case ErrAlreadyRevoked:
		return MsgAlreadyRevoked
	default:
		return MsgInvalidToken
	}
}
