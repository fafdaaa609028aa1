package service

import (
	"sort"
	"sync"
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
	"quizdraw/pkg/config"
)

// 測試用的記憶體版儲存層。
// 這些假實作維持和真正的資料庫相同的關鍵語義：
// 冪等鍵與複合鍵的唯一性、playing 回合的部分唯一約束、
// 以及 AssignWinner 的原子條件更新，全部以互斥鎖保護，
// 讓併發測試反映真實的提交順序裁決。

func testRules() config.GameConfig {
	return config.GameConfig{
		SendReward:      10,
		ReceiveReward:   10,
		AdReward:        50,
		DailySendCap:    10,
		DailyReceiveCap: 10,
		DailyAdCap:      5,
		MaxRoomPlayers:  8,
		MaxRoomRounds:   20,
	}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeRoomRepo struct {
	mu     sync.Mutex
	nextID uint
	rooms  map[uint]models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{nextID: 1, rooms: make(map[uint]models.Room)}
}

func (r *fakeRoomRepo) Create(room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rooms {
		if existing.Code == room.Code {
			return repository.ErrDuplicateKey
		}
	}
	room.ID = r.nextID
	r.nextID++
	r.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) FindByID(id uint) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *fakeRoomRepo) FindByCode(code string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.Code == code {
			copied := room
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoomRepo) UpdateStatus(roomID uint, status models.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return repository.ErrNotFound
	}
	room.Status = status
	r.rooms[roomID] = room
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	nextID  uint
	players []models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1}
}

func (r *fakePlayerRepo) Create(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.RoomID == player.RoomID && p.UserID == player.UserID {
			return repository.ErrDuplicateKey
		}
	}
	player.ID = r.nextID
	r.nextID++
	r.players = append(r.players, *player)
	return nil
}

func (r *fakePlayerRepo) FindByRoomAndUser(roomID, userID uint) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.RoomID == roomID && p.UserID == userID {
			copied := p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlayerRepo) CountByRoom(roomID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.players {
		if p.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakePlayerRepo) FindRoomIDsByUser(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, p := range r.players {
		if p.UserID == userID {
			ids = append(ids, p.RoomID)
		}
	}
	return ids, nil
}

type fakeRoundRepo struct {
	mu     sync.Mutex
	nextID uint
	rounds map[uint]models.Round

	// afterFind 在 FindByID 回傳之後被呼叫，
	// 測試用它在狀態檢查與條件更新之間插入競爭動作
	afterFind func(roundID uint)
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{nextID: 1, rounds: make(map[uint]models.Round)}
}

func (r *fakeRoundRepo) Create(round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 對應 rounds(room_id) WHERE status='playing' 的部分唯一索引
	for _, existing := range r.rounds {
		if existing.RoomID == round.RoomID && existing.Status == models.RoundStatusPlaying {
			return repository.ErrDuplicateKey
		}
	}
	round.ID = r.nextID
	r.nextID++
	r.rounds[round.ID] = *round
	return nil
}

func (r *fakeRoundRepo) FindByID(id uint) (*models.Round, error) {
	r.mu.Lock()
	round, ok := r.rounds[id]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.afterFind != nil {
		r.afterFind(id)
	}
	return &round, nil
}

func (r *fakeRoundRepo) FindActiveByRoom(roomID uint) (*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, round := range r.rounds {
		if round.RoomID == roomID && round.Status == models.RoundStatusPlaying {
			copied := round
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoundRepo) CountByRoom(roomID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, round := range r.rounds {
		if round.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRoundRepo) AssignWinner(roundID, winnerUserID uint, endedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return false, nil
	}
	if round.Status != models.RoundStatusPlaying || round.WinnerUserID != nil {
		return false, nil
	}
	round.Status = models.RoundStatusEnded
	round.WinnerUserID = &winnerUserID
	round.EndedAt = &endedAt
	r.rounds[roundID] = round
	return true, nil
}

type fakeGuessRepo struct {
	mu      sync.Mutex
	nextID  uint
	guesses []models.Guess
}

func newFakeGuessRepo() *fakeGuessRepo {
	return &fakeGuessRepo{nextID: 1}
}

func (r *fakeGuessRepo) Create(guess *models.Guess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	guess.ID = r.nextID
	r.nextID++
	r.guesses = append(r.guesses, *guess)
	return nil
}

func (r *fakeGuessRepo) FindByRoundID(roundID uint) ([]models.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Guess
	for _, g := range r.guesses {
		if g.RoundID == roundID {
			result = append(result, g)
		}
	}
	return result, nil
}

type fakeCoinTxRepo struct {
	mu     sync.Mutex
	nextID uint
	txs    []models.CoinTx
	byKey  map[string]bool
}

func newFakeCoinTxRepo() *fakeCoinTxRepo {
	return &fakeCoinTxRepo{nextID: 1, byKey: make(map[string]bool)}
}

func (r *fakeCoinTxRepo) Create(tx *models.CoinTx) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byKey[tx.IdemKey] {
		return repository.ErrDuplicateKey
	}
	tx.ID = r.nextID
	r.nextID++
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	r.byKey[tx.IdemKey] = true
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeCoinTxRepo) FindByIdemKey(key string) (*models.CoinTx, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.IdemKey == key {
			copied := tx
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCoinTxRepo) SumAmountByUser(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, tx := range r.txs {
		if tx.UserID == userID {
			sum += int64(tx.Amount)
		}
	}
	return sum, nil
}

func (r *fakeCoinTxRepo) CountByUserTypeBetween(userID uint, txType models.CoinTxType, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.txs {
		if tx.UserID == userID && tx.Type == txType &&
			!tx.CreatedAt.Before(from) && tx.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *fakeCoinTxRepo) FindRecentByUser(userID uint, limit int) ([]models.CoinTx, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.CoinTx
	for _, tx := range r.txs {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// countAll 回傳帳本中的記錄總數，測試用
func (r *fakeCoinTxRepo) countAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txs)
}

type fakeAdReceiptRepo struct {
	mu       sync.Mutex
	nextID   uint
	receipts map[string]models.AdReceipt
}

func newFakeAdReceiptRepo() *fakeAdReceiptRepo {
	return &fakeAdReceiptRepo{nextID: 1, receipts: make(map[string]models.AdReceipt)}
}

func (r *fakeAdReceiptRepo) Create(receipt *models.AdReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.receipts[receipt.IdemKey]; ok {
		return repository.ErrDuplicateKey
	}
	receipt.ID = r.nextID
	r.nextID++
	r.receipts[receipt.IdemKey] = *receipt
	return nil
}

func (r *fakeAdReceiptRepo) FindByIdemKey(key string) (*models.AdReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt, ok := r.receipts[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &receipt, nil
}

type fakeDrawingRepo struct {
	mu       sync.Mutex
	nextID   uint
	drawings []models.Drawing
	byRound  map[uint]uint // roundID -> drawerUserID，圖庫查詢用
	roomOf   map[uint]uint // roundID -> roomID
}

func newFakeDrawingRepo() *fakeDrawingRepo {
	return &fakeDrawingRepo{nextID: 1, byRound: make(map[uint]uint), roomOf: make(map[uint]uint)}
}

func (r *fakeDrawingRepo) Create(drawing *models.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drawing.ID = r.nextID
	r.nextID++
	r.drawings = append(r.drawings, *drawing)
	return nil
}

// registerRound 記下回合的畫圖者與房間，讓圖庫查詢不用真的 JOIN
func (r *fakeDrawingRepo) registerRound(roundID, drawerUserID, roomID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRound[roundID] = drawerUserID
	r.roomOf[roundID] = roomID
}

func (r *fakeDrawingRepo) FindByRound(roundID uint) (*models.Drawing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drawings {
		if d.RoundID == roundID {
			copied := d
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDrawingRepo) FindByDrawerInRooms(drawerUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error) {
	return r.filter(func(roundID uint) bool {
		return r.byRound[roundID] == drawerUserID && containsID(roomIDs, r.roomOf[roundID])
	}, limit), nil
}

func (r *fakeDrawingRepo) FindByOthersInRooms(excludeUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error) {
	return r.filter(func(roundID uint) bool {
		return r.byRound[roundID] != excludeUserID && containsID(roomIDs, r.roomOf[roundID])
	}, limit), nil
}

func (r *fakeDrawingRepo) filter(match func(roundID uint) bool, limit int) []models.Drawing {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Drawing
	for _, d := range r.drawings {
		if match(d.RoundID) {
			result = append(result, d)
		}
		if len(result) >= limit {
			break
		}
	}
	return result
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type fakePaletteRepo struct {
	mu       sync.Mutex
	nextID   uint
	palettes map[uint]models.Palette
	unlocks  []models.UserPalette
}

func newFakePaletteRepo() *fakePaletteRepo {
	return &fakePaletteRepo{nextID: 1, palettes: make(map[uint]models.Palette)}
}

func (r *fakePaletteRepo) add(name string, price int) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	palette := models.Palette{Name: name, Price: price}
	palette.ID = id
	r.palettes[id] = palette
	return id
}

func (r *fakePaletteRepo) FindAll() ([]models.Palette, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Palette
	for _, p := range r.palettes {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	return result, nil
}

func (r *fakePaletteRepo) FindByID(id uint) (*models.Palette, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	palette, ok := r.palettes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &palette, nil
}

func (r *fakePaletteRepo) CreateUnlock(unlock *models.UserPalette) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.UserID == unlock.UserID && u.PaletteID == unlock.PaletteID {
			return repository.ErrDuplicateKey
		}
	}
	r.unlocks = append(r.unlocks, *unlock)
	return nil
}

func (r *fakePaletteRepo) FindUnlock(userID, paletteID uint) (*models.UserPalette, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.UserID == userID && u.PaletteID == paletteID {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaletteRepo) FindUnlockedIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, u := range r.unlocks {
		if u.UserID == userID {
			ids = append(ids, u.PaletteID)
		}
	}
	return ids, nil
}

// testEnv 聚合一組假儲存層與常用服務
type testEnv struct {
	users     *fakeUserRepo
	rooms     *fakeRoomRepo
	players   *fakePlayerRepo
	rounds    *fakeRoundRepo
	guesses   *fakeGuessRepo
	coinTxs   *fakeCoinTxRepo
	receipts  *fakeAdReceiptRepo
	drawings  *fakeDrawingRepo
	palettes  *fakePaletteRepo
	wallet    *WalletService
	roundSvc  *RoundService
	roomSvc   *RoomService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newFakeUserRepo(),
		rooms:    newFakeRoomRepo(),
		players:  newFakePlayerRepo(),
		rounds:   newFakeRoundRepo(),
		guesses:  newFakeGuessRepo(),
		coinTxs:  newFakeCoinTxRepo(),
		receipts: newFakeAdReceiptRepo(),
		drawings: newFakeDrawingRepo(),
		palettes: newFakePaletteRepo(),
	}
	repos := &repository.Repositories{
		User:      env.users,
		Room:      env.rooms,
		Player:    env.players,
		Round:     env.rounds,
		Guess:     env.guesses,
		CoinTx:    env.coinTxs,
		AdReceipt: env.receipts,
		Drawing:   env.drawings,
		Palette:   env.palettes,
	}
	env.wallet = NewWalletService(env.coinTxs)
	env.roundSvc = NewRoundService(repos, env.wallet, nil, testRules())
	env.roomSvc = NewRoomService(env.rooms, env.players, env.users, nil, testRules().MaxRoomPlayers)
	return env
}

// addUser 建立用戶並回傳 ID
func (env *testEnv) addUser(username, nickname string) uint {
	user := &models.User{Username: username, Password: "x", Nickname: nickname}
	if err := env.users.Create(user); err != nil {
		panic(err)
	}
	return user.ID
}

// addRoomWithPlayers 建立房間並把指定用戶都加進去
func (env *testEnv) addRoomWithPlayers(userIDs ...uint) uint {
	room := &models.Room{Code: "TEST" + string(rune('A'+len(env.rooms.rooms))), Status: models.RoomStatusWaiting, CreatedBy: userIDs[0]}
	if err := env.rooms.Create(room); err != nil {
		panic(err)
	}
	for _, id := range userIDs {
		if err := env.players.Create(&models.Player{RoomID: room.ID, UserID: id, Nickname: "p"}); err != nil {
			panic(err)
		}
	}
	return room.ID
}
