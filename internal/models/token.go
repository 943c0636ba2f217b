package models

// TokenPair — пара токенов, выдаваемая при логине/ротации.
//
//   - AccessToken — короткоживущий JWT (scope=access_token);
//   - RefreshToken — долгоживущий JWT (scope=refresh_token), значение которого
//     хранится на строке пользователя и сверяется байт-в-байт при обновлении;
//   - TokenType — всегда "bearer".
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
