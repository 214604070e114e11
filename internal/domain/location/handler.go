package location

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/deskly/deskly-api/internal/pkg/imaging"
	"github.com/deskly/deskly-api/internal/pkg/response"
	"github.com/deskly/deskly-api/internal/pkg/storage"
)

// Handler handles location HTTP requests
type Handler struct {
	repo      Repository
	storage   storage.Storage
	processor *imaging.Processor
	validator *validator.Validate
}

// NewHandler creates location handler
func NewHandler(repo Repository, store storage.Storage, processor *imaging.Processor) *Handler {
	return &Handler{
		repo:      repo,
		storage:   store,
		processor: processor,
		validator: validator.New(),
	}
}

// List returns active locations with their buildings and floors
// GET /locations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.repo.ListLocations(r.Context(), true)
	if err != nil {
		response.InternalError(w)
		return
	}

	trees := make([]*LocationTree, 0, len(locations))
	for _, loc := range locations {
		tree, err := h.buildTree(r, loc)
		if err != nil {
			response.InternalError(w)
			return
		}
		trees = append(trees, tree)
	}

	response.OK(w, trees)
}

func (h *Handler) buildTree(r *http.Request, loc *Location) (*LocationTree, error) {
	buildings, err := h.repo.ListBuildings(r.Context(), loc.ID, true)
	if err != nil {
		return nil, err
	}

	tree := &LocationTree{Location: loc, Buildings: make([]*BuildingWithFloors, 0, len(buildings))}
	for _, b := range buildings {
		floors, err := h.repo.ListFloors(r.Context(), b.ID, true)
		if err != nil {
			return nil, err
		}
		tree.Buildings = append(tree.Buildings, &BuildingWithFloors{Building: b, Floors: floors})
	}
	return tree, nil
}

// Get returns a single location with its buildings and floors
// GET /locations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid location id")
		return
	}

	loc, err := h.repo.GetLocation(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			response.NotFound(w, "location not found")
			return
		}
		response.InternalError(w)
		return
	}

	tree, err := h.buildTree(r, loc)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, tree)
}

// Create creates a location (admin only)
// POST /locations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loc := &Location{
		Name:     req.Name,
		Address:  nullString(req.Address),
		City:     nullString(req.City),
		IsActive: true,
	}
	if err := h.repo.CreateLocation(r.Context(), loc); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, loc)
}

// Update updates a location (admin only)
// PUT /locations/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid location id")
		return
	}

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loc, err := h.repo.GetLocation(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			response.NotFound(w, "location not found")
			return
		}
		response.InternalError(w)
		return
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = nullString(*req.Address)
	}
	if req.City != nil {
		loc.City = nullString(*req.City)
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateLocation(r.Context(), loc); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, loc)
}

// CreateBuilding adds a building to a location (admin only)
// POST /locations/{id}/buildings
func (h *Handler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid location id")
		return
	}

	if _, err := h.repo.GetLocation(r.Context(), locationID); err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			response.NotFound(w, "location not found")
			return
		}
		response.InternalError(w)
		return
	}

	var req CreateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	b := &Building{
		LocationID: locationID,
		Name:       req.Name,
		Address:    nullString(req.Address),
		IsActive:   true,
	}
	if err := h.repo.CreateBuilding(r.Context(), b); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, b)
}

// CreateFloor adds a floor to a building (admin only)
// POST /buildings/{buildingId}/floors
func (h *Handler) CreateFloor(w http.ResponseWriter, r *http.Request) {
	buildingID, err := uuid.Parse(chi.URLParam(r, "buildingId"))
	if err != nil {
		response.BadRequest(w, "invalid building id")
		return
	}

	if _, err := h.repo.GetBuilding(r.Context(), buildingID); err != nil {
		if errors.Is(err, ErrBuildingNotFound) {
			response.NotFound(w, "building not found")
			return
		}
		response.InternalError(w)
		return
	}

	var req CreateFloorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	f := &Floor{
		BuildingID:  buildingID,
		Name:        req.Name,
		FloorNumber: req.FloorNumber,
		LayoutData:  req.LayoutData,
		IsActive:    true,
	}
	if err := h.repo.CreateFloor(r.Context(), f); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, f)
}

// UpdateFloorLayout replaces a floor's layout document (admin only)
// PUT /floors/{floorId}/layout
func (h *Handler) UpdateFloorLayout(w http.ResponseWriter, r *http.Request) {
	floorID, err := uuid.Parse(chi.URLParam(r, "floorId"))
	if err != nil {
		response.BadRequest(w, "invalid floor id")
		return
	}

	var req UpdateFloorLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if len(req.LayoutData) == 0 || !json.Valid(req.LayoutData) {
		response.BadRequest(w, "layout_data must be a valid JSON document")
		return
	}

	if err := h.repo.UpdateFloorLayout(r.Context(), floorID, req.LayoutData); err != nil {
		if errors.Is(err, ErrFloorNotFound) {
			response.NotFound(w, "floor not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "layout updated"})
}

// UploadFloorLayoutImage uploads a floor plan image (admin only)
// POST /floors/{floorId}/layout-image
func (h *Handler) UploadFloorLayoutImage(w http.ResponseWriter, r *http.Request) {
	floorID, err := uuid.Parse(chi.URLParam(r, "floorId"))
	if err != nil {
		response.BadRequest(w, "invalid floor id")
		return
	}

	if _, err := h.repo.GetFloor(r.Context(), floorID); err != nil {
		if errors.Is(err, ErrFloorNotFound) {
			response.NotFound(w, "floor not found")
			return
		}
		response.InternalError(w)
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > imaging.MaxFileSize {
		response.BadRequest(w, "file too large (max 10MB)")
		return
	}
	if !imaging.ValidateType(header.Filename) {
		response.BadRequest(w, "invalid file type (jpg, jpeg, png only)")
		return
	}

	processed, err := h.processor.Process(file)
	if err != nil {
		response.BadRequest(w, "failed to process image")
		return
	}

	originalKey, thumbKey := imaging.LayoutPaths(floorID.String(), header.Filename)

	ctx := r.Context()
	if err := h.storage.Put(ctx, originalKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		log.Error().Err(err).Str("key", originalKey).Msg("failed to upload layout image")
		response.InternalError(w)
		return
	}
	if err := h.storage.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		log.Error().Err(err).Str("key", thumbKey).Msg("failed to upload layout thumbnail")
		response.InternalError(w)
		return
	}

	imageURL := h.storage.GetURL(originalKey)
	thumbURL := h.storage.GetURL(thumbKey)

	if err := h.repo.SetFloorLayoutImage(ctx, floorID, imageURL, thumbURL); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{
		"layout_image_url": imageURL,
		"layout_thumb_url": thumbURL,
	})
}
