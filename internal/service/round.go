package service

import (
	"errors"
	"log"
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
	"quizdraw/internal/utils"
	"quizdraw/pkg/config"
)

// RoundService 負責回合的完整生命週期：開局（畫圖者獎勵）與
// 猜題仲裁（第一個猜對的人獲勝並結束回合）。
//
// 回合的結束沒有獨立的入口，唯一的途徑是 SubmitGuess 裡的原子條件更新，
// 所以不可能有兩個贏家，也不可能有人覆寫已經確定的贏家。
type RoundService struct {
	roundRepo   repository.RoundRepository
	guessRepo   repository.GuessRepository
	roomRepo    repository.RoomRepository
	playerRepo  repository.PlayerRepository
	drawingRepo repository.DrawingRepository
	wallet      *WalletService
	wsManager   *WebSocketManager
	rules       config.GameConfig
}

func NewRoundService(repos *repository.Repositories, wallet *WalletService,
	wsManager *WebSocketManager, rules config.GameConfig) *RoundService {
	return &RoundService{
		roundRepo:   repos.Round,
		guessRepo:   repos.Guess,
		roomRepo:    repos.Room,
		playerRepo:  repos.Player,
		drawingRepo: repos.Drawing,
		wallet:      wallet,
		wsManager:   wsManager,
		rules:       rules,
	}
}

// StartRoundResult 是開局的回傳結果
type StartRoundResult struct {
	Round       *models.Round
	Drawing     *models.Drawing
	CoinsEarned int // 畫圖者實際拿到的 SEND 獎勵，達到每日上限時為 0
}

// GuessResult 是一次猜題提交的回傳結果。
// 猜對但晚了一步（別人已經是贏家）不是錯誤：IsCorrect=true、IsWinner=false。
type GuessResult struct {
	Guess       *models.Guess
	IsCorrect   bool
	IsWinner    bool
	CoinsEarned int
	RoundStatus models.RoundStatus
}

// StartRound 開始新回合：創建回合與畫作、把房間標成 playing、發畫圖者獎勵。
//
// 「每個房間同時只有一個 playing 回合」由 rounds 表的部分唯一索引保證，
// 這裡的 FindActiveByRoom 只是先擋掉明顯的重複開局、給出友善的錯誤，
// 真正的裁決在插入那一刻。
func (s *RoundService) StartRound(roomID, drawerUserID uint, answer, drawingPath string,
	width, height int) (*StartRoundResult, error) {

	normalizedAnswer := utils.NormalizeText(answer)
	if len(answer) == 0 || len(answer) > 32 || normalizedAnswer == "" {
		return nil, ErrAnswerInvalid
	}
	if drawingPath == "" || width < 64 || height < 64 || width > 4096 || height > 4096 {
		return nil, ErrDrawingInvalid
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status == models.RoomStatusEnded {
		return nil, ErrRoomEnded
	}

	if _, err := s.playerRepo.FindByRoomAndUser(roomID, drawerUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotInRoom
		}
		return nil, err
	}

	count, err := s.roundRepo.CountByRoom(roomID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.rules.MaxRoomRounds) {
		return nil, ErrMaxRoundsReached
	}

	if _, err := s.roundRepo.FindActiveByRoom(roomID); err == nil {
		return nil, ErrRoundAlreadyActive
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	round := &models.Round{
		RoomID:       roomID,
		DrawerUserID: drawerUserID,
		Answer:       answer,
		Status:       models.RoundStatusPlaying,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.roundRepo.Create(round); err != nil {
		// 兩個幾乎同時的開局請求只有一個能通過部分唯一索引
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrRoundAlreadyActive
		}
		return nil, err
	}

	drawing := &models.Drawing{
		RoundID:     round.ID,
		StoragePath: drawingPath,
		Width:       width,
		Height:      height,
	}
	if err := s.drawingRepo.Create(drawing); err != nil {
		return nil, err
	}

	if err := s.roomRepo.UpdateStatus(roomID, models.RoomStatusPlaying); err != nil {
		return nil, err
	}

	coins, err := s.creditDrawer(round)
	if err != nil {
		return nil, err
	}

	if s.wsManager != nil {
		s.wsManager.BroadcastRoundEvent(roomID, "round_started", map[string]interface{}{
			"round_id":       round.ID,
			"drawer_user_id": drawerUserID,
		})
	}

	return &StartRoundResult{Round: round, Drawing: drawing, CoinsEarned: coins}, nil
}

// SubmitGuess 處理一次猜題。
//
// 不論對錯，猜測都會先被保存下來作為稽核記錄。猜對之後由資料庫的
// 條件更新裁決誰是贏家：同一回合再多的併發正確答案，也只有一個更新
// 會生效，其餘得到 IsWinner=false。開頭的狀態檢查只是快速路徑，
// 檢查通過後回合被別人結束的競態，同樣由條件更新吸收。
func (s *RoundService) SubmitGuess(roundID, userID uint, text string) (*GuessResult, error) {
	if len(text) == 0 || len(text) > 64 {
		return nil, ErrGuessInvalid
	}

	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if round.Status != models.RoundStatusPlaying {
		return nil, ErrRoundNotActive
	}
	if round.DrawerUserID == userID {
		return nil, ErrSelfGuessForbidden
	}

	normalized := utils.NormalizeText(text)
	isCorrect := normalized != "" && normalized == utils.NormalizeText(round.Answer)

	guess := &models.Guess{
		RoundID:        roundID,
		UserID:         userID,
		Text:           text,
		NormalizedText: normalized,
		IsCorrect:      isCorrect,
	}
	if err := s.guessRepo.Create(guess); err != nil {
		return nil, err
	}

	if !isCorrect {
		return &GuessResult{
			Guess:       guess,
			RoundStatus: models.RoundStatusPlaying,
		}, nil
	}

	won, err := s.roundRepo.AssignWinner(roundID, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !won {
		// 答案正確但別人先一步成為贏家，這是正常結果而不是錯誤
		return &GuessResult{
			Guess:       guess,
			IsCorrect:   true,
			RoundStatus: models.RoundStatusEnded,
		}, nil
	}

	// 房間回到 waiting 等待下一回合；失敗不影響已經確定的勝負
	if err := s.roomRepo.UpdateStatus(round.RoomID, models.RoomStatusWaiting); err != nil {
		log.Printf("failed to reset room %d status: %v", round.RoomID, err)
	}

	coins, err := s.creditWinner(round, userID)
	if err != nil {
		return nil, err
	}

	// 畫圖者的 SEND 獎勵照理在開局時已入帳，用同一個冪等鍵再補一次：
	// 正常情況被吸收成無操作，開局後中斷的情況在這裡補上
	if _, err := s.creditDrawer(round); err != nil {
		log.Printf("failed to credit drawer for round %d: %v", round.ID, err)
	}

	if s.wsManager != nil {
		s.wsManager.BroadcastRoundEvent(round.RoomID, "round_ended", map[string]interface{}{
			"round_id":       round.ID,
			"winner_user_id": userID,
		})
	}

	return &GuessResult{
		Guess:       guess,
		IsCorrect:   true,
		IsWinner:    true,
		CoinsEarned: coins,
		RoundStatus: models.RoundStatusEnded,
	}, nil
}

// GetRound 取得回合資訊
func (s *RoundService) GetRound(roundID uint) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

// creditDrawer 發畫圖者的 SEND 獎勵，冪等鍵由 (SEND, 回合, 畫圖者) 推導。
// 達到每日上限時跳過入帳，開局本身仍然成功。
func (s *RoundService) creditDrawer(round *models.Round) (int, error) {
	under, err := s.wallet.UnderDailyCap(round.DrawerUserID, models.CoinTxSend, s.rules.DailySendCap)
	if err != nil {
		return 0, err
	}
	if !under {
		return 0, nil
	}

	roundID := round.ID
	applied, err := s.wallet.Credit(round.DrawerUserID, models.CoinTxSend, s.rules.SendReward,
		utils.IdemKey("SEND", round.ID, round.DrawerUserID), &roundID, "", "api:start-round")
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, nil
	}
	return s.rules.SendReward, nil
}

// creditWinner 發猜中者的 RECEIVE 獎勵，達到每日上限時贏家身份不變、獎勵為 0
func (s *RoundService) creditWinner(round *models.Round, winnerUserID uint) (int, error) {
	under, err := s.wallet.UnderDailyCap(winnerUserID, models.CoinTxReceive, s.rules.DailyReceiveCap)
	if err != nil {
		return 0, err
	}
	if !under {
		return 0, nil
	}

	roundID := round.ID
	applied, err := s.wallet.Credit(winnerUserID, models.CoinTxReceive, s.rules.ReceiveReward,
		utils.IdemKey("RECEIVE", round.ID, winnerUserID), &roundID, "", "api:submit-guess")
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, nil
	}
	return s.rules.ReceiveReward, nil
}
