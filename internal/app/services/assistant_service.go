package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Aryan9inja/edu-collab/internal/app/access"
	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/config"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

// AssistantService defines the interface for the classroom study assistant
type AssistantService interface {
	Ask(ctx context.Context, classroomID, userID int64, req *dto.AssistantRequest) (*dto.AssistantResponse, error)
}

// assistantServiceImpl proxies assistant requests to an OpenAI-compatible
// chat completions endpoint on behalf of classroom members.
type assistantServiceImpl struct {
	classroomRepo ClassroomStore
	cfg           config.AssistantConfig
	httpClient    *http.Client
	logger        zerolog.Logger
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(
	classroomRepo ClassroomStore,
	cfg config.AssistantConfig,
	logger zerolog.Logger,
) AssistantService {
	return &assistantServiceImpl{
		classroomRepo: classroomRepo,
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout()},
		logger:        logger,
	}
}

type chatCompletionRequest struct {
	Model    string                 `json:"model"`
	Messages []dto.AssistantMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask forwards the conversation to the configured model and returns the
// first choice. Callers must be admin, member or grantee of the classroom.
func (s *assistantServiceImpl) Ask(ctx context.Context, classroomID, userID int64, req *dto.AssistantRequest) (*dto.AssistantResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.IsMember(classroom, userID) {
		return nil, apperrors.NewForbiddenError("Only classroom members can use the assistant")
	}

	if len(req.Messages) == 0 {
		return nil, apperrors.NewValidationError("At least one message is required")
	}

	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("assistant API key is not configured")
	}

	model := req.Model
	if model == "" {
		model = s.cfg.Model
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model:    model,
		Messages: req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding assistant request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error building assistant request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.SiteURL != "" {
		httpReq.Header.Set("HTTP-Referer", s.cfg.SiteURL)
	}
	if s.cfg.SiteName != "" {
		httpReq.Header.Set("X-Title", s.cfg.SiteName)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("classroomID", classroomID).
			Msg("Assistant upstream request failed")
		return nil, apperrors.NewUpstreamError("The assistant service is unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Failed to read assistant response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error().
			Int("status", resp.StatusCode).
			Int64("classroomID", classroomID).
			Msg("Assistant upstream returned an error")
		return nil, apperrors.NewUpstreamError("The assistant service returned an error")
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, apperrors.NewUpstreamError("The assistant service returned an invalid response")
	}
	if len(completion.Choices) == 0 {
		return nil, apperrors.NewUpstreamError("The assistant service returned no choices")
	}

	return &dto.AssistantResponse{
		Reply: completion.Choices[0].Message.Content,
		Model: model,
	}, nil
}
