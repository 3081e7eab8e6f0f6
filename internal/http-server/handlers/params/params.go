// Package params разбирает query-параметры табличных представлений
// в models.DummyFilter и собирает из него models.Query.
package params

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/response"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
)

// Имена query-параметров.
const (
	CustomerName = "customer_name"
	FromDate     = "from_date"
	ToDate       = "to_date"
	Product      = "product"
	Month        = "month"
	Year         = "year"
	SortColumn   = "sort_column"
	SortOrder    = "sort_order"
	Page         = "page"
	RowsPerPage  = "rows_per_page"
)

// ErrRowsPerPageTooLarge возвращается, когда rows_per_page больше настроенного максимума.
var ErrRowsPerPageTooLarge = errors.New("rows_per_page is too large")

// Defaults — состояние таблицы по умолчанию для представления.
type Defaults struct {
	Sort           models.SortSpec
	RowsPerPage    int
	MaxRowsPerPage int
}

// NewValidator создаёт валидатор, который называет поля по json-тегам,
// чтобы в сообщениях об ошибках были имена query-параметров.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Parse читает параметры запроса, подставляя значения по умолчанию.
// Нецелые page и rows_per_page — ошибка.
func Parse(r *http.Request, d Defaults) (models.DummyFilter, error) {
	q := r.URL.Query()
	f := models.DummyFilter{
		CustomerName: strings.TrimSpace(q.Get(CustomerName)),
		FromDate:     strings.TrimSpace(q.Get(FromDate)),
		ToDate:       strings.TrimSpace(q.Get(ToDate)),
		Product:      strings.TrimSpace(q.Get(Product)),
		Month:        strings.TrimSpace(q.Get(Month)),
		Year:         strings.TrimSpace(q.Get(Year)),
		SortColumn:   strings.TrimSpace(q.Get(SortColumn)),
		SortOrder:    strings.ToLower(strings.TrimSpace(q.Get(SortOrder))),
		RowsPerPage:  d.RowsPerPage,
	}
	f = WithDefaultSort(f, d.Sort)

	var err error
	if f.Page, err = intParam(q.Get(Page), 0); err != nil {
		return f, fmt.Errorf("invalid %s: %w", Page, err)
	}
	if f.RowsPerPage, err = intParam(q.Get(RowsPerPage), f.RowsPerPage); err != nil {
		return f, fmt.Errorf("invalid %s: %w", RowsPerPage, err)
	}
	return f, nil
}

// WithDefaultSort подставляет сортировку представления, если колонка не задана.
// Колонка без явного направления сортируется по возрастанию.
func WithDefaultSort(f models.DummyFilter, def models.SortSpec) models.DummyFilter {
	if f.SortColumn == "" {
		f.SortColumn = def.Column
		if f.SortOrder == "" {
			f.SortOrder = def.Order
		}
	}
	if f.SortOrder == "" {
		f.SortOrder = models.OrderAsc
	}
	return f
}

// CheckLimits проверяет то, что нельзя выразить статическими тегами валидатора.
func CheckLimits(f models.DummyFilter, d Defaults) error {
	if d.MaxRowsPerPage > 0 && f.RowsPerPage > d.MaxRowsPerPage {
		return fmt.Errorf("%w: maximum is %d", ErrRowsPerPageTooLarge, d.MaxRowsPerPage)
	}
	return nil
}

// Query собирает параметры представления из провалидированного фильтра.
func Query(f models.DummyFilter) models.Query {
	return models.Query{
		Filter:  f.Criteria(),
		Sort:    models.SortSpec{Column: f.SortColumn, Order: f.SortOrder},
		Page:    models.PageSpec{Page: f.Page, RowsPerPage: f.RowsPerPage},
		Columns: f.Columns(),
	}
}

func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// FromRequest разбирает и валидирует параметры. При ошибке сам пишет ответ 400
// и возвращает false.
func FromRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, d Defaults) (models.Query, bool) {
	f, err := Parse(r, d)
	if err != nil {
		log.Error("failed to parse query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return models.Query{}, false
	}

	if err := validate.Struct(f); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			log.Error("failed to validate query", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return models.Query{}, false
		}
		log.Error("invalid request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return models.Query{}, false
	}

	if err := CheckLimits(f, d); err != nil {
		log.Error("invalid request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return models.Query{}, false
	}

	return Query(f), true
}
