package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/promotiq/internal/app"
	"github.com/neomorfeo/promotiq/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// CatalogPromotionResponse is the API representation of a promotion.
type CatalogPromotionResponse struct {
	Code      string  `json:"code" doc:"Unique identifier"`
	Name      string  `json:"name" doc:"Display name"`
	StartDate *string `json:"start_date,omitempty" doc:"Activation instant (ISO 8601)"`
	EndDate   *string `json:"end_date,omitempty" doc:"Expiry instant (ISO 8601)"`
	Enabled   bool    `json:"enabled" doc:"Whether the promotion may apply"`
	State     string  `json:"state" doc:"Lifecycle state (driven, read-only)"`
	Priority  int     `json:"priority" doc:"Application order (higher first)"`
	Exclusive bool    `json:"exclusive" doc:"Whether this promotion suppresses others"`
	Action    string  `json:"action" doc:"Discount action type"`
	Amount    int64   `json:"amount" doc:"Action amount (percent or minor units)"`
	CreatedAt string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toPromotionResponse(p domain.CatalogPromotion) CatalogPromotionResponse {
	return CatalogPromotionResponse{
		Code:      p.Code,
		Name:      p.Name,
		StartDate: formatOptional(p.StartDate),
		EndDate:   formatOptional(p.EndDate),
		Enabled:   p.Enabled,
		State:     string(p.State),
		Priority:  p.Priority,
		Exclusive: p.Exclusive,
		Action:    string(p.Action.Type),
		Amount:    p.Action.Amount,
		CreatedAt: p.CreatedAt.Format(timeFormat),
		UpdatedAt: p.UpdatedAt.Format(timeFormat),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeFormat)
	return &s
}

// PromotionBody is the shared write payload for create and update.
type PromotionBody struct {
	Name      string  `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	StartDate *string `json:"start_date,omitempty" doc:"Activation instant (ISO 8601)"`
	EndDate   *string `json:"end_date,omitempty" doc:"Expiry instant (ISO 8601)"`
	Enabled   bool    `json:"enabled" doc:"Whether the promotion may apply"`
	Priority  int     `json:"priority,omitempty" doc:"Application order (higher first)"`
	Exclusive bool    `json:"exclusive,omitempty" doc:"Whether this promotion suppresses others"`
	Action    string  `json:"action" enum:"percentage,fixed" doc:"Discount action type"`
	Amount    int64   `json:"amount" minimum:"0" doc:"Action amount (percent or minor units)"`
}

func (b PromotionBody) dates() (start, end *time.Time, err error) {
	start, err = parseOptional(b.StartDate)
	if err != nil {
		return nil, nil, huma.Error422UnprocessableEntity("invalid start_date")
	}
	end, err = parseOptional(b.EndDate)
	if err != nil {
		return nil, nil, huma.Error422UnprocessableEntity("invalid end_date")
	}
	return start, end, nil
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// --- Create promotion ---

type CreatePromotionInput struct {
	Body struct {
		Code string `json:"code" minLength:"1" maxLength:"100" pattern:"^[a-z0-9_]+$" doc:"Unique code (lowercase, underscores)"`
		PromotionBody
	}
}

type CreatePromotionOutput struct {
	Body CatalogPromotionResponse
}

// --- Update promotion ---

type UpdatePromotionInput struct {
	Code string `path:"code" doc:"Promotion code"`
	Body PromotionBody
}

type UpdatePromotionOutput struct {
	Body CatalogPromotionResponse
}

// --- Get / List / Remove ---

type GetPromotionInput struct {
	Code string `path:"code" doc:"Promotion code"`
}

type GetPromotionOutput struct {
	Body CatalogPromotionResponse
}

type ListPromotionsInput struct {
	State  string `query:"state" required:"false" enum:",inactive,processing,active" doc:"Filter by lifecycle state"`
	Limit  int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListPromotionsOutput struct {
	Body []CatalogPromotionResponse
}

type RemovePromotionInput struct {
	Code string `path:"code" doc:"Promotion code"`
}

type RemovePromotionOutput struct {
	Status int
}

// --- Products / variants ---

type ChannelPricingResponse struct {
	ChannelCode       string   `json:"channel_code" doc:"Sales channel"`
	Price             int64    `json:"price" doc:"Current price in minor units (possibly discounted)"`
	OriginalPrice     *int64   `json:"original_price,omitempty" doc:"Pre-promotion price; set only while discounted"`
	AppliedPromotions []string `json:"applied_promotions,omitempty" doc:"Promotions responsible for the discount"`
}

type VariantResponse struct {
	Code            string                   `json:"code" doc:"Unique identifier"`
	ProductCode     string                   `json:"product_code" doc:"Owning product"`
	Name            string                   `json:"name" doc:"Display name"`
	ChannelPricings []ChannelPricingResponse `json:"channel_pricings" doc:"Per-channel prices"`
}

func toVariantResponse(v domain.ProductVariant) VariantResponse {
	pricings := make([]ChannelPricingResponse, len(v.ChannelPricings))
	for i, cp := range v.ChannelPricings {
		pricings[i] = ChannelPricingResponse{
			ChannelCode:       cp.ChannelCode,
			Price:             cp.Price,
			OriginalPrice:     cp.OriginalPrice,
			AppliedPromotions: cp.AppliedPromotions,
		}
	}
	return VariantResponse{
		Code:            v.Code,
		ProductCode:     v.ProductCode,
		Name:            v.Name,
		ChannelPricings: pricings,
	}
}

type CreateProductInput struct {
	Body struct {
		Code     string `json:"code" minLength:"1" maxLength:"100" doc:"Unique product code"`
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Variants []struct {
			Code   string           `json:"code" minLength:"1" maxLength:"100" doc:"Unique variant code"`
			Name   string           `json:"name" doc:"Display name"`
			Prices map[string]int64 `json:"prices" doc:"Undiscounted price per channel code, in minor units"`
		} `json:"variants" doc:"Variants created with the product"`
	}
}

type CreateProductOutput struct {
	Status int
}

type GetVariantInput struct {
	Code string `path:"code" doc:"Variant code"`
}

type GetVariantOutput struct {
	Body VariantResponse
}

type UpdateVariantInput struct {
	Code string `path:"code" doc:"Variant code"`
	Body struct {
		Name   string           `json:"name,omitempty" doc:"Display name"`
		Prices map[string]int64 `json:"prices,omitempty" doc:"New undiscounted price per channel code"`
	}
}

type UpdateVariantOutput struct {
	Body VariantResponse
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, promotions *app.CatalogPromotionService, catalog *app.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-catalog-promotion",
		Method:      http.MethodPost,
		Path:        "/api/v1/catalog-promotions",
		Summary:     "Create a catalog promotion",
		Tags:        []string{"Catalog Promotions"},
	}, func(ctx context.Context, input *CreatePromotionInput) (*CreatePromotionOutput, error) {
		start, end, err := input.Body.dates()
		if err != nil {
			return nil, err
		}

		promotion, err := promotions.Create(ctx, input.Body.Code, input.Body.Name, start, end,
			input.Body.Enabled, input.Body.Priority, input.Body.Exclusive,
			domain.PromotionAction{Type: domain.ActionType(input.Body.Action), Amount: input.Body.Amount})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatePromotionOutput{Body: toPromotionResponse(promotion)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-catalog-promotion",
		Method:      http.MethodPut,
		Path:        "/api/v1/catalog-promotions/{code}",
		Summary:     "Update a catalog promotion",
		Tags:        []string{"Catalog Promotions"},
	}, func(ctx context.Context, input *UpdatePromotionInput) (*UpdatePromotionOutput, error) {
		start, end, err := input.Body.dates()
		if err != nil {
			return nil, err
		}

		promotion, err := promotions.Update(ctx, input.Code, input.Body.Name, start, end,
			input.Body.Enabled, input.Body.Priority, input.Body.Exclusive,
			domain.PromotionAction{Type: domain.ActionType(input.Body.Action), Amount: input.Body.Amount})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdatePromotionOutput{Body: toPromotionResponse(promotion)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-catalog-promotion",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog-promotions/{code}",
		Summary:     "Get a catalog promotion by code",
		Tags:        []string{"Catalog Promotions"},
	}, func(ctx context.Context, input *GetPromotionInput) (*GetPromotionOutput, error) {
		promotion, err := promotions.GetByCode(ctx, input.Code)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetPromotionOutput{Body: toPromotionResponse(promotion)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-catalog-promotions",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog-promotions",
		Summary:     "List catalog promotions",
		Tags:        []string{"Catalog Promotions"},
	}, func(ctx context.Context, input *ListPromotionsInput) (*ListPromotionsOutput, error) {
		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.State != "" {
			s := domain.State(input.State)
			filter.State = &s
		}

		list, err := promotions.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]CatalogPromotionResponse, len(list))
		for i, p := range list {
			resp[i] = toPromotionResponse(p)
		}
		return &ListPromotionsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-catalog-promotion",
		Method:      http.MethodDelete,
		Path:        "/api/v1/catalog-promotions/{code}",
		Summary:     "Remove a catalog promotion",
		Description: "Validates state and announces the disable/remove command sequence; the deletion itself is asynchronous.",
		Tags:        []string{"Catalog Promotions"},
	}, func(ctx context.Context, input *RemovePromotionInput) (*RemovePromotionOutput, error) {
		if err := promotions.Remove(ctx, input.Code); err != nil {
			return nil, toHumaError(err)
		}
		return &RemovePromotionOutput{Status: http.StatusAccepted}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-product",
		Method:      http.MethodPost,
		Path:        "/api/v1/products",
		Summary:     "Create a product with variants",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *CreateProductInput) (*CreateProductOutput, error) {
		variants := make([]domain.ProductVariant, len(input.Body.Variants))
		for i, v := range input.Body.Variants {
			pricings := make([]domain.ChannelPricing, 0, len(v.Prices))
			for channel, price := range v.Prices {
				pricings = append(pricings, domain.ChannelPricing{ChannelCode: channel, Price: price})
			}
			variants[i] = domain.ProductVariant{Code: v.Code, Name: v.Name, ChannelPricings: pricings}
		}

		err := catalog.CreateProduct(ctx,
			domain.Product{Code: input.Body.Code, Name: input.Body.Name}, variants)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateProductOutput{Status: http.StatusCreated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-product-variant",
		Method:      http.MethodGet,
		Path:        "/api/v1/product-variants/{code}",
		Summary:     "Get a product variant with its pricing",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *GetVariantInput) (*GetVariantOutput, error) {
		variant, err := catalog.GetVariant(ctx, input.Code)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetVariantOutput{Body: toVariantResponse(variant)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-product-variant",
		Method:      http.MethodPut,
		Path:        "/api/v1/product-variants/{code}",
		Summary:     "Update a product variant's base prices",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *UpdateVariantInput) (*UpdateVariantOutput, error) {
		variant, err := catalog.UpdateVariant(ctx, input.Code, input.Body.Name, input.Body.Prices)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateVariantOutput{Body: toVariantResponse(variant)}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCatalogPromotionNotFound):
		return huma.Error404NotFound("catalog promotion not found")
	case errors.Is(err, domain.ErrProductNotFound):
		return huma.Error404NotFound("product not found")
	case errors.Is(err, domain.ErrProductVariantNotFound):
		return huma.Error404NotFound("product variant not found")
	}

	var conflictErr *domain.CodeConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		return huma.Error422UnprocessableEntity(stateErr.Error())
	}

	var unknownErr *domain.UnknownStateError
	if errors.As(err, &unknownErr) {
		return huma.Error422UnprocessableEntity(unknownErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
