package service

import (
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
	"quizdraw/pkg/config"
)

// SignatureVerifier 驗證廣告網路回呼的簽名。
// 對核心邏輯來說這是一個純謂詞，實際的公鑰管理在 AdMobVerifier。
type SignatureVerifier interface {
	Verify(message, signature, keyID string) (bool, error)
}

// AdRewardService 處理廣告獎勵回呼：結構上與猜題獎勵平行的冪等入帳管線，
// 只是把「猜對」換成了外部簽名驗證。
//
// 廣告網路用 at-least-once 的方式投遞通知，同一筆交易可能重送多次。
// 收據與帳本記錄共用以外部交易 ID 推導的冪等鍵，重送直接回放第一次的結果。
type AdRewardService struct {
	receiptRepo repository.AdReceiptRepository
	userRepo    repository.UserRepository
	wallet      *WalletService
	verifier    SignatureVerifier
	rules       config.GameConfig
	window      time.Duration

	now func() time.Time // 測試時替換
}

func NewAdRewardService(receiptRepo repository.AdReceiptRepository, userRepo repository.UserRepository,
	wallet *WalletService, verifier SignatureVerifier, rules config.GameConfig, window time.Duration) *AdRewardService {
	return &AdRewardService{
		receiptRepo: receiptRepo,
		userRepo:    userRepo,
		wallet:      wallet,
		verifier:    verifier,
		rules:       rules,
		window:      window,
		now:         time.Now,
	}
}

// VerifyAdRewardInput 是 AdMob SSV 回呼的內容
type VerifyAdRewardInput struct {
	UserID        uint
	AdNetwork     string
	AdUnit        string
	RewardAmount  int
	RewardItem    string
	Timestamp     int64 // Unix 秒
	TransactionID string
	Signature     string
	KeyID         string
	CustomData    string
	RawPayload    string // 原始請求內容，存進收據作稽核
}

// VerifyAdRewardResult 是廣告獎勵處理的結果
type VerifyAdRewardResult struct {
	Verified     bool
	CoinsAwarded int
	TotalBalance int64
	ReceiptID    string
}

// VerifyAndCredit 驗證回呼並入帳。
// 時間窗與簽名檢查都在任何持久化寫入之前完成，
// 無效或過期的請求碰不到帳本。
func (s *AdRewardService) VerifyAndCredit(input VerifyAdRewardInput) (*VerifyAdRewardResult, error) {
	idemKey := "admob:" + input.TransactionID

	// 已處理過的交易：不重新驗證也不重新入帳，回放第一次的結果
	if receipt, err := s.receiptRepo.FindByIdemKey(idemKey); err == nil {
		return s.replay(input.UserID, receipt)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.RewardAmount != s.rules.AdReward {
		return nil, ErrAmountMismatch
	}

	// 時間窗檢查：太舊或太超前的時間戳都拒絕
	eventTime := time.Unix(input.Timestamp, 0)
	if diff := s.now().Sub(eventTime); diff > s.window || diff < -s.window {
		return nil, ErrTimestampOutOfRange
	}

	ok, err := s.verifier.Verify(buildVerificationMessage(input), input.Signature, input.KeyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidSignature
	}

	// 每日上限：回呼本身仍算驗證成功，只是獎勵為 0
	under, err := s.wallet.UnderDailyCap(input.UserID, models.CoinTxAdReward, s.rules.DailyAdCap)
	if err != nil {
		return nil, err
	}

	awarded := 0
	if under {
		awarded = s.rules.AdReward
	}

	receipt := &models.AdReceipt{
		IdemKey:      idemKey,
		UserID:       input.UserID,
		ProviderTxID: input.TransactionID,
		KeyID:        input.KeyID,
		Signature:    input.Signature,
		Payload:      input.RawPayload,
		Amount:       awarded,
	}
	if err := s.receiptRepo.Create(receipt); err != nil {
		// 兩個重送幾乎同時通過上面的查詢，輸掉插入的那個回放對方的結果
		if errors.Is(err, repository.ErrDuplicateKey) {
			existing, findErr := s.receiptRepo.FindByIdemKey(idemKey)
			if findErr != nil {
				return nil, findErr
			}
			return s.replay(input.UserID, existing)
		}
		return nil, err
	}

	if awarded > 0 {
		applied, err := s.wallet.Credit(input.UserID, models.CoinTxAdReward, awarded,
			idemKey, nil, input.TransactionID, "api:verify-ad-reward")
		if err != nil {
			return nil, err
		}
		if !applied {
			log.Printf("ad reward coin tx already existed for %s", idemKey)
		}
	}

	balance, err := s.wallet.Balance(input.UserID)
	if err != nil {
		return nil, err
	}

	return &VerifyAdRewardResult{
		Verified:     true,
		CoinsAwarded: awarded,
		TotalBalance: balance,
		ReceiptID:    idemKey,
	}, nil
}

// replay 回放已處理交易的結果，不產生任何新的狀態
func (s *AdRewardService) replay(userID uint, receipt *models.AdReceipt) (*VerifyAdRewardResult, error) {
	balance, err := s.wallet.Balance(userID)
	if err != nil {
		return nil, err
	}
	return &VerifyAdRewardResult{
		Verified:     true,
		CoinsAwarded: receipt.Amount,
		TotalBalance: balance,
		ReceiptID:    receipt.IdemKey,
	}, nil
}

// buildVerificationMessage 依 AdMob SSV 的欄位順序組出被簽名的內容
func buildVerificationMessage(input VerifyAdRewardInput) string {
	pairs := []struct{ key, value string }{
		{"ad_network", input.AdNetwork},
		{"ad_unit", input.AdUnit},
		{"reward_amount", strconv.Itoa(input.RewardAmount)},
		{"reward_item", input.RewardItem},
		{"timestamp", strconv.FormatInt(input.Timestamp, 10)},
		{"transaction_id", input.TransactionID},
		{"user_id", strconv.FormatUint(uint64(input.UserID), 10)},
	}
	if input.CustomData != "" {
		pairs = append(pairs, struct{ key, value string }{"custom_data", input.CustomData})
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}
