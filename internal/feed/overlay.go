package feed

import (
	"Rex/internal/model"
	"sort"
	"sync"
	"time"
)

// MutationStatus 乐观写入的状态
type MutationStatus string

const (
	MutationPending    MutationStatus = "pending"
	MutationCommitted  MutationStatus = "committed"
	MutationRolledBack MutationStatus = "rolledBack"
)

// Mutation 一次乐观写入的结果，UI 与测试断言同一枚举而非零散布尔
type Mutation struct {
	Status MutationStatus              `json:"status"`
	Value  *model.UserThingInteraction `json:"value,omitempty"`
	Err    error                       `json:"-"`
}

// InteractionPatch 浅合并补丁，nil 字段不触碰原值
type InteractionPatch struct {
	State      *string
	Visibility *string
	Rating     *int
	Content    *string
	Notes      *string
	Photos     *model.InteractionPhotos
	Date       *time.Time
}

type overlayEntry struct {
	interaction *model.UserThingInteraction
	deleted     bool // 墓碑：压制尚未刷新的服务端同条记录
	touchedAt   time.Time
}

// OverlayStore 刚写入互动的进程级覆盖层。
// 信息流负载在 Redis 里按用户短暂缓存；聚合前先用覆盖层替换同
// (userID, thingID) 的旧行，保证用户立刻看到自己刚做的修改，
// 即使命中的是一份还没失效的缓存负载。并发纪律只有 last-write-wins，
// 跨进程的并发编辑不做合并。
type OverlayStore struct {
	mu sync.RWMutex

	// userID -> thingID -> entry
	byUser map[uint64]map[uint64]*overlayEntry
	// interaction id -> (userID, thingID)，按 id 的操作经此定位
	index map[uint64][2]uint64
}

func NewOverlayStore() *OverlayStore {
	return &OverlayStore{
		byUser: make(map[uint64]map[uint64]*overlayEntry),
		index:  make(map[uint64][2]uint64),
	}
}

// GetByThingID 返回 (userID, thingID) 的覆盖条目；墓碑与未命中都返回 nil
func (s *OverlayStore) GetByThingID(userID, thingID uint64) *model.UserThingInteraction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := s.lookup(userID, thingID)
	if entry == nil || entry.deleted {
		return nil
	}
	return CloneInteraction(entry.interaction)
}

// Snapshot 返回该用户所有覆盖条目（含墓碑），供聚合前合并
func (s *OverlayStore) Snapshot(userID uint64) (overrides map[uint64]*model.UserThingInteraction, tombstones map[uint64]struct{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overrides = make(map[uint64]*model.UserThingInteraction)
	tombstones = make(map[uint64]struct{})

	for thingID, entry := range s.byUser[userID] {
		if entry.deleted {
			tombstones[thingID] = struct{}{}
			continue
		}
		overrides[thingID] = CloneInteraction(entry.interaction)
	}
	return overrides, tombstones
}

// Add 写入新的覆盖条目；同 id 再次写入为 last-write-wins
func (s *OverlayStore) Add(interaction *model.UserThingInteraction) {
	if interaction == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userEntries, ok := s.byUser[interaction.UserID]
	if !ok {
		userEntries = make(map[uint64]*overlayEntry)
		s.byUser[interaction.UserID] = userEntries
	}

	userEntries[interaction.ThingID] = &overlayEntry{
		interaction: CloneInteraction(interaction),
		touchedAt:   time.Now(),
	}
	s.index[interaction.ID] = [2]uint64{interaction.UserID, interaction.ThingID}
}

// Update 对已有条目浅合并；id 不存在则不动作，绝不凭补丁造出残缺记录
func (s *OverlayStore) Update(id uint64, patch InteractionPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.index[id]
	if !ok {
		return
	}
	entry := s.lookup(loc[0], loc[1])
	if entry == nil || entry.deleted {
		return
	}

	it := entry.interaction
	if patch.State != nil {
		it.State = *patch.State
	}
	if patch.Visibility != nil {
		it.Visibility = *patch.Visibility
	}
	if patch.Rating != nil {
		it.Rating = *patch.Rating
	}
	if patch.Content != nil {
		it.Content = *patch.Content
	}
	if patch.Notes != nil {
		it.Notes = *patch.Notes
	}
	if patch.Photos != nil {
		it.Photos = patch.Photos
	}
	if patch.Date != nil {
		it.Date = *patch.Date
	}
	entry.touchedAt = time.Now()
}

// Remove 放置墓碑：后续聚合不再出现该条，直到墓碑被清理；
// 清理后若服务端集合仍含此 id，条目会重新出现，属已知并接受的竞态。
func (s *OverlayStore) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.index[id]
	if !ok {
		return
	}
	entry := s.lookup(loc[0], loc[1])
	if entry == nil {
		return
	}
	entry.deleted = true
	entry.interaction = nil
	entry.touchedAt = time.Now()
}

// Restore 回滚：将 (userID, thingID) 恢复为变更前的值；prev 为 nil 时整条撤销
func (s *OverlayStore) Restore(userID, thingID uint64, prev *model.UserThingInteraction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userEntries := s.byUser[userID]
	if userEntries == nil {
		if prev == nil {
			return
		}
		userEntries = make(map[uint64]*overlayEntry)
		s.byUser[userID] = userEntries
	}

	if prev == nil {
		if entry := userEntries[thingID]; entry != nil && entry.interaction != nil {
			delete(s.index, entry.interaction.ID)
		}
		delete(userEntries, thingID)
		return
	}

	userEntries[thingID] = &overlayEntry{
		interaction: CloneInteraction(prev),
		touchedAt:   time.Now(),
	}
	s.index[prev.ID] = [2]uint64{userID, thingID}
}

// Sweep 清理 touchedAt 早于 cutoff 的条目（含墓碑），返回清理数量
func (s *OverlayStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, userEntries := range s.byUser {
		for thingID, entry := range userEntries {
			if entry.touchedAt.After(cutoff) {
				continue
			}
			if entry.interaction != nil {
				delete(s.index, entry.interaction.ID)
			}
			delete(userEntries, thingID)
			removed++
		}
		if len(userEntries) == 0 {
			delete(s.byUser, userID)
		}
	}
	return removed
}

// MergeOverlay 在聚合前将覆盖层并入服务端取回的行。
// 同 (viewerID, thingID) 的服务端行被替换而非追加；墓碑行被剔除；
// 服务端还没有的覆盖条目被补入，且先于随之而来的派生计算
// (avgRating / mostRecentUpdate / myInteraction)，本地优先。
func MergeOverlay(serverRows []*model.UserThingInteraction, store *OverlayStore, viewerID uint64) []*model.UserThingInteraction {
	if store == nil {
		return serverRows
	}

	overrides, tombstones := store.Snapshot(viewerID)
	if len(overrides) == 0 && len(tombstones) == 0 {
		return serverRows
	}

	merged := make([]*model.UserThingInteraction, 0, len(serverRows)+len(overrides))
	applied := make(map[uint64]struct{})

	for _, row := range serverRows {
		if row.UserID != viewerID {
			merged = append(merged, row)
			continue
		}
		if _, dead := tombstones[row.ThingID]; dead {
			continue
		}
		if override, ok := overrides[row.ThingID]; ok {
			merged = append(merged, override)
			applied[row.ThingID] = struct{}{}
			continue
		}
		merged = append(merged, row)
	}

	// 补入按 thingID 升序，同一时间戳的行在两次渲染之间不互换位置
	extra := make([]uint64, 0, len(overrides))
	for thingID := range overrides {
		if _, ok := applied[thingID]; ok {
			continue
		}
		extra = append(extra, thingID)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, thingID := range extra {
		merged = append(merged, overrides[thingID])
	}

	return merged
}

func (s *OverlayStore) lookup(userID, thingID uint64) *overlayEntry {
	userEntries := s.byUser[userID]
	if userEntries == nil {
		return nil
	}
	return userEntries[thingID]
}

// CloneInteraction 深拷贝一条交互，Photos 切片同样独立
func CloneInteraction(it *model.UserThingInteraction) *model.UserThingInteraction {
	if it == nil {
		return nil
	}
	clone := *it
	if it.Photos != nil {
		photos := make(model.InteractionPhotos, len(*it.Photos))
		copy(photos, *it.Photos)
		clone.Photos = &photos
	}
	return &clone
}
