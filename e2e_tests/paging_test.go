package e2etests

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/RichardKnop/sqlpage"
)

var (
	allUsers = &sqlpage.MappedStatement{
		ID:     "users.all",
		Source: `select id, name, email from users order by id`,
		Result: sqlpage.ResultRows,
	}
	usersByActive = &sqlpage.MappedStatement{
		ID:     "users.byActive",
		Source: `select id, name from users where active = ? order by id`,
		Result: sqlpage.ResultRows,
	}
)

func (s *TestSuite) TestPaging() {
	s.Run("Pages match direct limit and offset queries", func() {
		for pageNum := 1; pageNum <= 5; pageNum++ {
			result := s.query(allUsers, sqlpage.NewPage(pageNum, 10))
			s.Require().True(result.Paged())

			s.Equal(pageNum, result.Page.PageNum)
			s.Equal(10, result.Page.PageSize)
			s.Equal(seededUsers, result.Page.TotalRows)
			s.Equal(5, result.Page.Pages())
			s.Equal(
				s.directIDs(`select id from users order by id limit 10 offset ?`, (pageNum-1)*10),
				ids(result.Page.Rows),
			)
		}
	})

	s.Run("Last page is partial", func() {
		result := s.query(allUsers, sqlpage.NewPage(5, 10))
		s.Len(result.Page.Rows, 7)
		s.False(result.Page.HasNext())
	})

	s.Run("Page past the end keeps its number", func() {
		result := s.query(allUsers, sqlpage.NewPage(9, 10))
		s.Equal(9, result.Page.PageNum)
		s.Equal(seededUsers, result.Page.TotalRows)
		s.Empty(result.Page.Rows)
	})

	s.Run("Filter parameters are bound to both queries", func() {
		parameter := map[string]any{"active": true, "page": sqlpage.NewPage(2, 5)}
		result := s.query(usersByActive, parameter, true)

		s.Equal(s.directCount(`select count(*) from users where active = ?`, true), result.Page.TotalRows)
		s.Equal(
			s.directIDs(`select id from users where active = ? order by id limit 5 offset 5`, true),
			ids(result.Page.Rows),
		)
	})

	s.Run("Page orders replace the statement ordering", func() {
		page := sqlpage.NewPage(1, 3).OrderBy("id", sqlpage.Desc)
		result := s.query(allUsers, page)
		s.Equal([]int64{47, 46, 45}, ids(result.Page.Rows))
	})

	s.Run("Default page size applies to unsized pages", func() {
		result := s.query(allUsers, sqlpage.NewPage(0, 0))
		s.Equal(1, result.Page.PageNum)
		s.Equal(sqlpage.DefaultPageSize, result.Page.PageSize)
		s.Len(result.Page.Rows, sqlpage.DefaultPageSize)
	})

	s.Run("Statements with their own limit are paged over", func() {
		limited := &sqlpage.MappedStatement{
			ID:     "users.firstTwenty",
			Source: `select id from users order by id limit 20`,
			Result: sqlpage.ResultRows,
		}
		result := s.query(limited, sqlpage.NewPage(2, 15))
		s.Equal(20, result.Page.TotalRows)
		s.Equal(s.directIDs(`select id from users where id between 16 and 20 order by id`), ids(result.Page.Rows))
	})
}

func (s *TestSuite) TestZeroCount() {
	var (
		mu      sync.Mutex
		queries []string
		exec    = sqlpage.ExecutorFunc(func(ctx context.Context, ms *sqlpage.MappedStatement, parameter any, bounds sqlpage.RowBounds, bound *sqlpage.BoundSQL) ([]any, error) {
			mu.Lock()
			queries = append(queries, bound.SQL)
			mu.Unlock()
			return s.executor.Query(ctx, ms, parameter, bounds, bound)
		})
		nobody = &sqlpage.MappedStatement{
			ID:     "users.none",
			Source: `select id from users where id < 0`,
			Result: sqlpage.ResultRows,
		}
	)

	result := s.queryWith(exec, nobody, sqlpage.NewPage(4, 10))
	s.Require().True(result.Paged())
	s.Equal(1, result.Page.PageNum)
	s.Equal(0, result.Page.TotalRows)
	s.NotNil(result.Page.Rows)
	s.Empty(result.Page.Rows)

	s.Require().Len(queries, 1)
	s.True(strings.HasPrefix(queries[0], "SELECT COUNT(*) FROM ("))
}

func (s *TestSuite) TestPassthrough() {
	result := s.query(allUsers, map[string]any{"active": true})
	s.False(result.Paged())
	s.Len(result.Rows, seededUsers)

	byID := &sqlpage.MappedStatement{
		ID:     "users.byID",
		Source: `select name from users where id = ?`,
		Result: sqlpage.ResultRows,
	}
	result = s.query(byID, nil, 1)
	s.False(result.Paged())
	s.Len(result.Rows, 1)

	expected := `
# HELP sqlpage_queries_total Total number of intercepted queries by outcome
# TYPE sqlpage_queries_total counter
sqlpage_queries_total{dialect="sqlite",outcome="passthrough"} 2
`
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "sqlpage_queries_total"))
}

func (s *TestSuite) TestCountStatementCache() {
	s.query(allUsers, sqlpage.NewPage(1, 10))
	s.query(allUsers, sqlpage.NewPage(2, 10))
	s.query(allUsers, sqlpage.NewPage(3, 20))
	s.query(usersByActive, map[string]any{"active": true, "page": sqlpage.NewPage(1, 10)}, true)

	expected := `
# HELP sqlpage_count_statement_cache_lookups_total Total number of count statement cache lookups by result
# TYPE sqlpage_count_statement_cache_lookups_total counter
sqlpage_count_statement_cache_lookups_total{result="hit"} 2
sqlpage_count_statement_cache_lookups_total{result="miss"} 2
`
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "sqlpage_count_statement_cache_lookups_total"))
}

func (s *TestSuite) TestConcurrentPaging() {
	var (
		wg      sync.WaitGroup
		results = make([][]int64, 5)
		errs    = make([]error, 5)
	)

	for i := range results {
		wg.Add(1)
		go func(pageNum int) {
			defer wg.Done()
			result, err := s.interceptor.Query(context.Background(), sqlpage.Request{
				Statement: allUsers,
				Parameter: sqlpage.NewPage(pageNum, 10),
				Bounds:    sqlpage.DefaultRowBounds,
			}, s.executor)
			if err != nil {
				errs[pageNum-1] = err
				return
			}
			results[pageNum-1] = ids(result.Page.Rows)
		}(i + 1)
	}
	wg.Wait()

	var seen []int64
	for i := range results {
		s.Require().NoError(errs[i])
		seen = append(seen, results[i]...)
	}
	s.Equal(s.directIDs(`select id from users order by id`), seen)
}
