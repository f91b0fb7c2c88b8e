package service

import (
	"context"
	"log/slog"

	"proximart/webclient/internal/model"
)

type HelpPage struct {
	FAQs    Section[[]model.FAQ] `json:"faqs"`
	Notices []Notice             `json:"notices"`
}

type HelpService struct {
	api    API
	logger *slog.Logger
}

func NewHelpService(api API, logger *slog.Logger) *HelpService {
	return &HelpService{api: api, logger: logger}
}

func (s *HelpService) FAQs(ctx context.Context) *HelpPage {
	page := &HelpPage{Notices: []Notice{}}

	var notice *Notice
	page.FAQs, notice = load(ctx, s.logger, "FAQs", func(ctx context.Context) ([]model.FAQ, error) {
		resp, err := s.api.FAQs(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Items(), nil
	})
	page.Notices = appendNotice(page.Notices, notice)
	return page
}
