package es

import (
	"Rex/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type ThingRepo interface {
	SearchThings(ctx context.Context, queryText string, category string, from, size int) ([]*ThingES, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetThingById(ctx context.Context, id uint64) (*ThingES, error)
	GetLatestByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*ThingES, []interface{}, error)
	IndexThing(ctx context.Context, thing *ThingES, version int64) error
	DeleteThing(ctx context.Context, id uint64) error
}

type ThingRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewThingRepo(client *elasticsearch.TypedClient) ThingRepo {
	return &ThingRepoImpl{client: client}
}

// SearchThings 标题权重最高，其次描述和标签；category 为空时不过滤分类
func (s *ThingRepoImpl) SearchThings(ctx context.Context, queryText string, category string, from, size int) ([]*ThingES, error) {
	if from >= MaxSearchDepth {
		return []*ThingES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Must: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"title^3", "description", "tags"},
				},
			},
		},
	}
	if category != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"category": {Value: category},
			},
		})
	}

	searchReq := s.client.Search().
		Index(ThingIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	things, _, err := s.executeSearch(ctx, searchReq)
	return things, err
}

func (s *ThingRepoImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	suggestKey := "thing-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "title.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: util.PtrStr("AUTO"),
			},
			Size: util.PtrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(ThingIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

func (s *ThingRepoImpl) GetThingById(ctx context.Context, id uint64) (*ThingES, error) {
	docID := strconv.FormatUint(id, 10)
	result, err := s.client.Get(ThingIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var thing ThingES
	if err = json.Unmarshal(result.Source_, &thing); err != nil {
		return nil, err
	}
	if thing.Tags == nil {
		thing.Tags = make([]string, 0)
	}
	return &thing, nil
}

// GetLatestByCursor 按创建时间降序翻页，返回下一页的 SearchAfter 游标
func (s *ThingRepoImpl) GetLatestByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*ThingES, []interface{}, error) {
	req := s.client.Search().
		Index(ThingIndex).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
			"id":         {Order: &sortorder.Desc},
		}}).
		Size(size)

	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

// IndexThing 以 external version 写入，旧事件到达时被版本冲突拦下
func (s *ThingRepoImpl) IndexThing(ctx context.Context, thing *ThingES, version int64) error {
	docID := strconv.FormatUint(thing.ID, 10)

	_, err := s.client.Index(ThingIndex).
		Id(docID).
		Document(thing).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *ThingRepoImpl) DeleteThing(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(ThingIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *ThingRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*ThingES, []interface{}, error) {
	res, err := req.Do(ctx)
	if err != nil {
		return nil, nil, err
	}

	things := make([]*ThingES, 0, len(res.Hits.Hits))
	var lastSort []interface{}
	for _, hit := range res.Hits.Hits {
		var thing ThingES
		if err = json.Unmarshal(hit.Source_, &thing); err != nil {
			continue
		}
		if thing.Tags == nil {
			thing.Tags = make([]string, 0)
		}
		things = append(things, &thing)
		if len(hit.Sort) > 0 {
			lastSort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				lastSort[i] = v
			}
		}
	}
	return things, lastSort, nil
}
