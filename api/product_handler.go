package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hidromont/site-backend/cache"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/uploads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type productHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *services.ContentService
	files     *uploads.Store
	cache     publicCache
}

func newProductHandler(content *services.ContentService, files *uploads.Store, responses publicCache) productHandler {
	logger := log.With().Str("handlerName", "productHandler").Logger()

	return productHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
		files:     files,
		cache:     responses,
	}
}

// listProducts returns a page of product briefs
// @Summary List products
// @Description Products without a status count as published.
// @Tags Products
// @Produce json
// @Param category query string false "exact category"
// @Param q query string false "case-insensitive search in name and short description"
// @Param limit query int false "1-100, default 50"
// @Param offset query int false "default 0"
// @Success 200 {object} services.Page[models.ProductBrief]
// @Router /products [get]
func (h productHandler) listProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := listParams(r)
		key := cache.Key("products", params.Category, params.Query, params.Limit, params.Offset)

		h.cache.serve(w, r, h.responder, key, func(ctx context.Context) (any, error) {
			return h.content.ListProducts(ctx, params, isAdmin(r))
		})
	}
}

func (h productHandler) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		key := cache.Key("product", slug)

		h.cache.serve(w, r, h.responder, key, func(ctx context.Context) (any, error) {
			return h.content.GetProductBySlug(ctx, slug, isAdmin(r))
		})
	}
}

// adminListProducts returns full projections, galleries included.
func (h productHandler) adminListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.content.AdminListProducts(r.Context(), listParams(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

func (h productHandler) getProductByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		product, err := h.content.GetProductByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, product)
	}
}

func (h productHandler) createProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.ProductInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		product, err := h.content.CreateProduct(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, product)
	}
}

func (h productHandler) updateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.ProductPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		product, err := h.content.UpdateProduct(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, product)
	}
}

func (h productHandler) deleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.content.DeleteProduct(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}

type imageResponse struct {
	Image string `json:"image"`
}

type documentResponse struct {
	Document string `json:"document"`
}

func (h productHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fh, err := uploadedFile(w, r, h.files.MaxBytes)
		defer cleanupMultipart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		url, err := h.content.SetProductImage(r.Context(), id, fh)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, imageResponse{Image: url})
	}
}

func (h productHandler) uploadDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fh, err := uploadedFile(w, r, h.files.MaxBytes)
		defer cleanupMultipart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		url, err := h.content.SetProductDocument(r.Context(), id, fh)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, documentResponse{Document: url})
	}
}

func (h productHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fh, err := uploadedFile(w, r, h.files.MaxBytes)
		defer cleanupMultipart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sortOrder, _ := strconv.Atoi(r.FormValue("sort"))
		media, err := h.content.AddProductMedia(r.Context(), id, fh, r.FormValue("alt"), sortOrder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, media)
	}
}

func (h productHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		mediaID, err := pathID(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.content.DeleteProductMedia(r.Context(), id, mediaID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}
