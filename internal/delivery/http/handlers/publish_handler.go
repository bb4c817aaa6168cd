package handlers

import (
	"strings"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/usecases"
	"social-publisher/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OwnerHeader scopes every request to the caller's own integrations.
const OwnerHeader = "X-Owner-ID"

type PublishHandler struct {
	publisher usecases.PublisherService
	jobs      usecases.JobService
	log       *zap.Logger
}

func NewPublishHandler(publisher usecases.PublisherService, jobs usecases.JobService, log *zap.Logger) *PublishHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PublishHandler{
		publisher: publisher,
		jobs:      jobs,
		log:       log,
	}
}

type publishInput struct {
	ownerID      string
	request      dto.PublishRequestDTO
	destinations []dto.DestinationRequest
}

func (h *PublishHandler) parse(c *fiber.Ctx) (*publishInput, error) {
	ownerID := strings.TrimSpace(c.Get(OwnerHeader))
	if ownerID == "" {
		return nil, errors.ErrInvalidRequest(OwnerHeader + " header is required")
	}

	var req dto.PublishRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.ErrInvalidRequest("request body is not valid JSON: " + err.Error())
	}
	if len(req.Destinations) == 0 {
		return nil, errors.ErrInvalidRequest("at least one destination is required")
	}
	if len(req.Media) > 0 && len(req.URLs) > 0 {
		return nil, errors.ErrInvalidRequest("media and urls cannot be combined")
	}

	destinations, err := dto.ToDestinationRequests(req.Destinations)
	if err != nil {
		return nil, errors.ErrInvalidRequest(err.Error())
	}
	return &publishInput{ownerID: ownerID, request: req, destinations: destinations}, nil
}

// Publish
//
// @Summary      Publish a batch
// @Description  Normalizes media once and publishes it to every destination, returning one outcome per destination
// @Tags         Publish
// @Accept       json
// @Produce      json
// @Param        X-Owner-ID  header    string                 true  "Owner id"
// @Param        request     body      dto.PublishRequestDTO  true  "Batch"
// @Success      200         {object}  dto.PublishResponseDTO
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      502         {object}  dto.ErrorResponse
// @Router       /publish [post]
func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return errors.HandleError(c, h.log, err)
	}

	batchKey := in.request.BatchKey
	if batchKey == "" {
		batchKey = uuid.NewString()
	}

	var outcomes []dto.PublishOutcome
	if len(in.request.URLs) > 0 {
		outcomes, err = h.publisher.PublishHostedBatch(c.UserContext(), in.ownerID, batchKey, in.destinations, in.request.Caption, in.request.URLs)
	} else {
		media, convErr := dto.ToMediaItems(in.request.Media)
		if convErr != nil {
			return errors.HandleError(c, h.log, errors.ErrInvalidRequest(convErr.Error()))
		}
		outcomes, err = h.publisher.PublishBatch(c.UserContext(), in.ownerID, batchKey, in.destinations, in.request.Caption, media)
	}
	if err != nil {
		return errors.HandleError(c, h.log, err)
	}

	return c.JSON(dto.PublishResponseDTO{
		BatchKey: batchKey,
		Outcomes: outcomes,
		Summary:  usecases.Summary(outcomes),
	})
}

// EnqueuePublish
//
// @Summary      Queue a batch
// @Description  Queues the batch for a worker and returns the job id
// @Tags         Publish
// @Accept       json
// @Produce      json
// @Param        X-Owner-ID  header    string                 true  "Owner id"
// @Param        request     body      dto.PublishRequestDTO  true  "Batch"
// @Success      202         {object}  dto.EnqueueResponseDTO
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      503         {object}  dto.ErrorResponse
// @Router       /publish/jobs [post]
func (h *PublishHandler) EnqueuePublish(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return errors.HandleError(c, h.log, err)
	}

	queued, err := h.jobs.Submit(c.UserContext(), dto.PublishJob{
		OwnerID:      in.ownerID,
		BatchKey:     in.request.BatchKey,
		Caption:      in.request.Caption,
		Destinations: in.destinations,
		Media:        in.request.Media,
		HostedURLs:   in.request.URLs,
	})
	if err != nil {
		return errors.HandleError(c, h.log, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.EnqueueResponseDTO{
		JobID:  queued.JobID,
		Status: queued.Status,
	})
}

// JobStatus
//
// @Summary      Get job status
// @Tags         Publish
// @Produce      json
// @Param        X-Owner-ID  header    string  true  "Owner id"
// @Param        id          path      string  true  "Job id"
// @Success      200         {object}  dto.PublishJobResult
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /publish/jobs/{id} [get]
func (h *PublishHandler) JobStatus(c *fiber.Ctx) error {
	ownerID := strings.TrimSpace(c.Get(OwnerHeader))
	if ownerID == "" {
		return errors.HandleError(c, h.log, errors.ErrInvalidRequest(OwnerHeader+" header is required"))
	}

	result, err := h.jobs.Status(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return errors.HandleError(c, h.log, err)
	}
	return c.JSON(result)
}
