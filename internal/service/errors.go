package service

import "net/http"

// ServiceError 是服務層對外的統一錯誤類型。
// Code 讓客戶端區分驗證錯誤、衝突與不存在，Status 供 handler 對應 HTTP 狀態碼。
// 衝突（例如回合已有贏家、廣告交易重複）是預期中的結果，不應被當成可重試的失敗。
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

var (
	// 房間相關
	ErrRoomNotFound    = &ServiceError{"ROOM_NOT_FOUND", "房間不存在", http.StatusNotFound}
	ErrRoomEnded       = &ServiceError{"ROOM_ENDED", "房間已關閉", http.StatusConflict}
	ErrRoomFull        = &ServiceError{"ROOM_FULL", "房間人數已滿", http.StatusConflict}
	ErrPlayerNotInRoom = &ServiceError{"PLAYER_NOT_IN_ROOM", "用戶未加入此房間", http.StatusForbidden}

	// 回合相關
	ErrRoundNotFound      = &ServiceError{"ROUND_NOT_FOUND", "回合不存在", http.StatusNotFound}
	ErrRoundNotActive     = &ServiceError{"ROUND_NOT_ACTIVE", "回合不在進行中", http.StatusConflict}
	ErrRoundAlreadyActive = &ServiceError{"ROUND_ALREADY_ACTIVE", "已有回合正在進行", http.StatusConflict}
	ErrMaxRoundsReached   = &ServiceError{"MAX_ROUNDS_REACHED", "房間回合數已達上限", http.StatusConflict}
	ErrSelfGuessForbidden = &ServiceError{"SELF_GUESS_FORBIDDEN", "畫圖者不能猜自己的題目", http.StatusForbidden}
	ErrAnswerInvalid      = &ServiceError{"ANSWER_INVALID", "謎底長度必須在 1 到 32 字之間", http.StatusBadRequest}
	ErrGuessInvalid       = &ServiceError{"GUESS_INVALID", "猜測長度必須在 1 到 64 字之間", http.StatusBadRequest}
	ErrDrawingInvalid     = &ServiceError{"DRAWING_INVALID", "畫作參照或尺寸不合法", http.StatusBadRequest}

	// 用戶相關
	ErrUserNotFound = &ServiceError{"USER_NOT_FOUND", "用戶不存在", http.StatusNotFound}

	// 廣告獎勵相關
	ErrInvalidSignature    = &ServiceError{"INVALID_SIGNATURE", "廣告回呼簽名驗證失敗", http.StatusForbidden}
	ErrTimestampOutOfRange = &ServiceError{"TIMESTAMP_OUT_OF_RANGE", "廣告回呼時間戳超出允許範圍", http.StatusBadRequest}
	ErrAmountMismatch      = &ServiceError{"AMOUNT_MISMATCH", "廣告獎勵金額與設定不符", http.StatusBadRequest}

	// 調色盤相關
	ErrPaletteNotFound     = &ServiceError{"PALETTE_NOT_FOUND", "調色盤不存在", http.StatusNotFound}
	ErrInsufficientBalance = &ServiceError{"INSUFFICIENT_BALANCE", "金幣餘額不足", http.StatusConflict}
)
