package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
)

// fakeStore 테스트용 인메모리 Store 구현입니다.
// 쓰기 연산 횟수를 기록하여 단일 쓰기 보장 여부를 검증할 수 있습니다.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*ProductRecord

	insertCalls  int
	updateCalls  int
	replaceCalls int

	// 지정된 Ref에 대한 ReplaceHistory 호출을 실패시킵니다.
	failReplaceRef string
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]*ProductRecord{},
	}
}

func (s *fakeStore) snapshot(ref string) *ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[ref]
	if !exists {
		return nil
	}
	return cloneRecord(record)
}

func cloneRecord(record *ProductRecord) *ProductRecord {
	clone := *record
	clone.History = append([]ModificationEntry{}, record.History...)
	return &clone
}

func (s *fakeStore) FindByRef(_ context.Context, ref string) (*ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[ref]
	if !exists {
		return nil, nil
	}
	return cloneRecord(record), nil
}

func (s *fakeStore) Insert(_ context.Context, record *ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++

	if _, exists := s.records[record.Ref]; exists {
		return apperrors.Newf(apperrors.Conflict, "동일한 Ref의 상품이 이미 존재합니다(ref=%s)", record.Ref)
	}
	s.records[record.Ref] = cloneRecord(record)
	return nil
}

func (s *fakeStore) UpdateByRef(_ context.Context, ref string, update Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++

	record, exists := s.records[ref]
	if !exists {
		return apperrors.Newf(apperrors.NotFound, "상품을 찾을 수 없습니다(ref=%s)", ref)
	}

	record.Designation = update.Fields.Designation
	record.Description = update.Fields.Description
	record.Price = update.Fields.Price
	record.Brand = update.Fields.Brand
	record.Company = update.Fields.Company
	record.Category = update.Fields.Category
	record.Subcategory = update.Fields.Subcategory
	record.Stock = update.Fields.Stock
	record.URL = update.Fields.URL
	record.ImageURL = update.Fields.ImageURL
	if update.History != nil {
		record.History = append(record.History, *update.History)
	}
	return nil
}

func (s *fakeStore) Search(_ context.Context, query Query) (*SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []ProductRecord
	for _, record := range s.records {
		if matchesFilter(record, query.Filter) {
			matched = append(matched, *cloneRecord(record))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].Ref < matched[j].Ref
		switch query.SortKey {
		case SortByPrice:
			less = matched[i].Price < matched[j].Price
		case SortByDateAdded, "":
			less = matched[i].DateAdded.Before(matched[j].DateAdded)
		}
		if query.SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = total
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &SearchResult{
		Records:    matched[start:end],
		Total:      int64(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func matchesFilter(record *ProductRecord, filter Filter) bool {
	contains := func(value, substr string) bool {
		return substr == "" || strings.Contains(strings.ToLower(value), strings.ToLower(substr))
	}

	if !contains(record.Ref, filter.Ref) ||
		!contains(record.Designation, filter.Designation) ||
		!contains(record.Brand, filter.Brand) ||
		!contains(record.Company, filter.Company) ||
		!contains(record.Category, filter.Category) ||
		!contains(record.Subcategory, filter.Subcategory) ||
		!contains(record.Stock, filter.Stock) {
		return false
	}

	if filter.PriceMin != nil && record.Price < *filter.PriceMin {
		return false
	}
	if filter.PriceMax != nil && record.Price > *filter.PriceMax {
		return false
	}

	if filter.AddedFrom != nil && record.DateAdded.Before(*filter.AddedFrom) {
		return false
	}
	if filter.AddedTo != nil && record.DateAdded.After(*filter.AddedTo) {
		return false
	}

	if filter.ModifiedFrom != nil || filter.ModifiedTo != nil {
		lastModified, exists := record.LastModified()
		if !exists {
			return false
		}
		if filter.ModifiedFrom != nil && lastModified.Before(*filter.ModifiedFrom) {
			return false
		}
		if filter.ModifiedTo != nil && lastModified.After(*filter.ModifiedTo) {
			return false
		}
	}

	return true
}

func (s *fakeStore) CountStockStatus(_ context.Context, filter Filter) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int64{}
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			counts[record.Stock]++
		}
	}
	return counts, nil
}

func (s *fakeStore) DistinctValues(_ context.Context, field string, filter Filter) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	for _, record := range s.records {
		if !matchesFilter(record, filter) {
			continue
		}
		switch field {
		case "brand":
			seen[record.Brand] = struct{}{}
		case "category":
			seen[record.Category] = struct{}{}
		case "subcategory":
			seen[record.Subcategory] = struct{}{}
		case "company":
			seen[record.Company] = struct{}{}
		case "stock":
			seen[record.Stock] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for value := range seen {
		if value != "" {
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values, nil
}

func (s *fakeStore) TopModified(_ context.Context, limit int) ([]ModifiedCountEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []ModifiedCountEntry
	for _, record := range s.records {
		entries = append(entries, ModifiedCountEntry{
			Ref:               record.Ref,
			Designation:       record.Designation,
			Company:           record.Company,
			Price:             record.Price,
			ModificationCount: int64(len(record.History)),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModificationCount != entries[j].ModificationCount {
			return entries[i].ModificationCount > entries[j].ModificationCount
		}
		return entries[i].Ref < entries[j].Ref
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *fakeStore) CategoryDistribution(_ context.Context) ([]CategoryCountEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int64{}
	for _, record := range s.records {
		counts[record.Category]++
	}

	entries := make([]CategoryCountEntry, 0, len(counts))
	for category, count := range counts {
		entries = append(entries, CategoryCountEntry{Category: category, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Category < entries[j].Category })
	return entries, nil
}

func (s *fakeStore) AddedPerDay(_ context.Context, since time.Time) ([]DayCountEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int64{}
	for _, record := range s.records {
		if record.DateAdded.Before(since) {
			continue
		}
		counts[record.DateAdded.Format("2006-01-02")]++
	}
	return dayCountEntries(counts), nil
}

func (s *fakeStore) ModifiedPerDay(_ context.Context, since time.Time) ([]DayCountEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int64{}
	for _, record := range s.records {
		for _, entry := range record.History {
			if entry.Timestamp.Before(since) {
				continue
			}
			counts[entry.Timestamp.Format("2006-01-02")]++
		}
	}
	return dayCountEntries(counts), nil
}

func dayCountEntries(counts map[string]int64) []DayCountEntry {
	entries := make([]DayCountEntry, 0, len(counts))
	for day, count := range counts {
		entries = append(entries, DayCountEntry{Day: day, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	return entries
}

func (s *fakeStore) IterateAll(_ context.Context, fn func(record *ProductRecord) error) error {
	s.mu.Lock()
	refs := make([]string, 0, len(s.records))
	for ref := range s.records {
		refs = append(refs, ref)
	}
	s.mu.Unlock()
	sort.Strings(refs)

	for _, ref := range refs {
		record := s.snapshot(ref)
		if record == nil {
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) ReplaceHistory(_ context.Context, ref string, history []ModificationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceCalls++

	if ref == s.failReplaceRef && s.failReplaceRef != "" {
		return apperrors.New(apperrors.System, "저장소 쓰기에 실패하였습니다")
	}

	record, exists := s.records[ref]
	if !exists {
		return apperrors.Newf(apperrors.NotFound, "상품을 찾을 수 없습니다(ref=%s)", ref)
	}
	record.History = append([]ModificationEntry{}, history...)
	return nil
}

func (s *fakeStore) EnsureIndexes(_ context.Context) error { return nil }

func (s *fakeStore) Close(_ context.Context) error { return nil }
