package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition — бизнес-ошибка с кодом и сообщением по умолчанию.
type Definition struct {
	Code    string
	Message string
}

// Аутентификация и пользователи.
var (
	Unauthorized         = Definition{Code: "UNAUTHORIZED", Message: "Недействительный или истёкший токен"}
	InvalidCredentials   = Definition{Code: "INVALID_CREDENTIALS", Message: "Неверный email или пароль"}
	UserDeactivated      = Definition{Code: "USER_DEACTIVATED", Message: "Учётная запись деактивирована"}
	EmailAlreadyTaken    = Definition{Code: "EMAIL_ALREADY_TAKEN", Message: "Email уже зарегистрирован"}
	UsernameAlreadyTaken = Definition{Code: "USERNAME_ALREADY_TAKEN", Message: "Имя пользователя уже занято"}
	InvalidTokenType     = Definition{Code: "INVALID_TOKEN_TYPE", Message: "Неверный тип токена"}
	UserNotFound         = Definition{Code: "USER_NOT_FOUND", Message: "Пользователь не найден"}
)

// Поездки и участники.
var (
	TripNotFound            = Definition{Code: "TRIP_NOT_FOUND", Message: "Поездка не найдена"}
	NotParticipant          = Definition{Code: "NOT_PARTICIPANT", Message: "Вы не являетесь участником этой поездки"}
	NotOrganizer            = Definition{Code: "NOT_ORGANIZER", Message: "Только организатор может выполнить это действие"}
	InvalidInviteCode       = Definition{Code: "INVALID_INVITE_CODE", Message: "Недействительный код приглашения"}
	AlreadyParticipant      = Definition{Code: "ALREADY_PARTICIPANT", Message: "Вы уже являетесь участником этой поездки"}
	ParticipantLimitReached = Definition{Code: "PARTICIPANT_LIMIT_REACHED", Message: "Достигнуто максимальное количество участников"}
	OrganizerCannotLeave    = Definition{Code: "ORGANIZER_CANNOT_LEAVE", Message: "Организатор не может покинуть свою поездку"}
	InvalidDateRange        = Definition{Code: "INVALID_DATE_RANGE", Message: "Дата окончания не может быть раньше даты начала"}
	StartDateInPast         = Definition{Code: "START_DATE_IN_PAST", Message: "Дата начала не может быть в прошлом"}
)

// Пожелания.
var (
	PreferenceNotFound     = Definition{Code: "PREFERENCE_NOT_FOUND", Message: "Пожелание не найдено"}
	NotPreferenceOwner     = Definition{Code: "NOT_PREFERENCE_OWNER", Message: "Вы можете изменять только свои пожелания"}
	PreferenceLimitReached = Definition{Code: "PREFERENCE_LIMIT_REACHED", Message: "Достигнут лимит пожеланий на поездку"}
	InvalidPriority        = Definition{Code: "INVALID_PRIORITY", Message: "Приоритет должен быть от 1 до 5"}
	InvalidPlaceType       = Definition{Code: "INVALID_PLACE_TYPE", Message: "Недопустимый тип места"}
)

// Генерация маршрутов.
var (
	GenerationInProgress   = Definition{Code: "GENERATION_IN_PROGRESS", Message: "Генерация маршрутов уже выполняется"}
	GenerationLimitReached = Definition{Code: "GENERATION_LIMIT_REACHED", Message: "Достигнут лимит генераций для этой поездки"}
	NoPreferences          = Definition{Code: "NO_PREFERENCES", Message: "Добавьте хотя бы одно пожелание для генерации маршрутов"}
	RouteNotFound          = Definition{Code: "ROUTE_NOT_FOUND", Message: "Маршрут не найден"}
)

// Голосование.
var (
	RoutesNotReady = Definition{Code: "ROUTES_NOT_READY", Message: "Маршруты ещё не сгенерированы"}
	DuplicateVote  = Definition{Code: "DUPLICATE_VOTE", Message: "Вы уже проголосовали за этот вариант"}
	VoteNotFound   = Definition{Code: "VOTE_NOT_FOUND", Message: "Голос не найден"}
)

// Чек-лист.
var (
	GenerateRoutesFirst = Definition{Code: "GENERATE_ROUTES_FIRST", Message: "Сначала сгенерируйте маршруты. Чек-лист строится по маршруту, набравшему больше всего голосов."}
	VoteFirst           = Definition{Code: "VOTE_FIRST", Message: "Сначала проголосуйте за маршрут. Чек-лист строится по варианту, набравшему большинство голосов."}
)

// Реакции.
var (
	ReactionNotFound = Definition{Code: "REACTION_NOT_FOUND", Message: "Реакция не найдена"}
	InvalidEmoji     = Definition{Code: "INVALID_EMOJI", Message: "Недопустимая реакция"}
)

// Общие.
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Слишком много запросов. Попробуйте позже."}
)

// Провайдер LLM.
var (
	LLMNotConfigured = Definition{Code: "LLM_NOT_CONFIGURED", Message: "Генерация недоступна: провайдер DeepSeek не настроен."}
	LLMRateLimited   = Definition{Code: "LLM_RATE_LIMITED", Message: "Превышен лимит запросов к DeepSeek API. Пожалуйста, подождите немного и попробуйте снова."}
	LLMAuthFailed    = Definition{Code: "LLM_AUTH_FAILED", Message: "Ошибка аутентификации DeepSeek API. Пожалуйста, проверьте настройки API ключа."}
	LLMProviderError = Definition{Code: "LLM_PROVIDER_ERROR", Message: "Ошибка генерации. Попробуйте позже."}
)

// Токены (pkg/token).
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator is not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrRefreshTokenRevoked          = errors.New("refresh token revoked")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
)

// Lookup — коды бизнес-ошибок для быстрого поиска.
var Lookup = map[string]Definition{
	Unauthorized.Code:            Unauthorized,
	InvalidCredentials.Code:      InvalidCredentials,
	UserDeactivated.Code:         UserDeactivated,
	EmailAlreadyTaken.Code:       EmailAlreadyTaken,
	UsernameAlreadyTaken.Code:    UsernameAlreadyTaken,
	InvalidTokenType.Code:        InvalidTokenType,
	UserNotFound.Code:            UserNotFound,
	TripNotFound.Code:            TripNotFound,
	NotParticipant.Code:          NotParticipant,
	NotOrganizer.Code:            NotOrganizer,
	InvalidInviteCode.Code:       InvalidInviteCode,
	AlreadyParticipant.Code:      AlreadyParticipant,
	ParticipantLimitReached.Code: ParticipantLimitReached,
	OrganizerCannotLeave.Code:    OrganizerCannotLeave,
	InvalidDateRange.Code:        InvalidDateRange,
	StartDateInPast.Code:         StartDateInPast,
	PreferenceNotFound.Code:      PreferenceNotFound,
	NotPreferenceOwner.Code:      NotPreferenceOwner,
	PreferenceLimitReached.Code:  PreferenceLimitReached,
	InvalidPriority.Code:         InvalidPriority,
	InvalidPlaceType.Code:        InvalidPlaceType,
	GenerationInProgress.Code:    GenerationInProgress,
	GenerationLimitReached.Code:  GenerationLimitReached,
	NoPreferences.Code:           NoPreferences,
	RouteNotFound.Code:           RouteNotFound,
	RoutesNotReady.Code:          RoutesNotReady,
	DuplicateVote.Code:           DuplicateVote,
	VoteNotFound.Code:            VoteNotFound,
	GenerateRoutesFirst.Code:     GenerateRoutesFirst,
	VoteFirst.Code:               VoteFirst,
	TooManyRequests.Code:         TooManyRequests,
	ReactionNotFound.Code:        ReactionNotFound,
	InvalidEmoji.Code:            InvalidEmoji,
	LLMNotConfigured.Code:        LLMNotConfigured,
	LLMRateLimited.Code:          LLMRateLimited,
	LLMAuthFailed.Code:           LLMAuthFailed,
	LLMProviderError.Code:        LLMProviderError,
}
