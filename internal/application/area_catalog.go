package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
)

// AreaCatalog はスペースとエリアの読み取り専用の参照口
type AreaCatalog struct {
	spaceRepo coworking.Repository
	areaRepo  area.Repository
}

func NewAreaCatalog(sr coworking.Repository, ar area.Repository) *AreaCatalog {
	return &AreaCatalog{spaceRepo: sr, areaRepo: ar}
}

func (c *AreaCatalog) GetSpace(ctx context.Context, id string) (*coworking.Space, error) {
	if id == "" {
		return nil, coworking.ErrSpaceNotFound
	}
	return c.spaceRepo.GetByID(ctx, id)
}

func (c *AreaCatalog) GetAreasByIDs(ctx context.Context, ids []string) ([]*area.Area, error) {
	return c.areaRepo.GetByIDs(ctx, ids)
}

// ResolveAreas は要求順にエリアを返す
// 存在しない、または別スペースのエリアがあれば該当IDをすべて含む MismatchError を返す
func (c *AreaCatalog) ResolveAreas(ctx context.Context, spaceID string, ids []string) ([]*area.Area, error) {
	found, err := c.areaRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("エリア取得に失敗: %w", err)
	}
	byID := make(map[string]*area.Area, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	areas := make([]*area.Area, 0, len(ids))
	var mismatched []string
	for _, id := range ids {
		a, ok := byID[id]
		if !ok || !a.BelongsTo(spaceID) {
			mismatched = append(mismatched, id)
			continue
		}
		areas = append(areas, a)
	}
	if len(mismatched) > 0 {
		return nil, &area.MismatchError{AreaIDs: mismatched}
	}
	return areas, nil
}

// uniqueIDs は出現順を保ったまま重複と空文字を取り除く
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
