package httpapp

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/newsbrief/newsbrief/internal/model"
	"github.com/newsbrief/newsbrief/internal/store"
)

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	email, ok := identityFrom(r.Context())
	if !ok {
		writeInternalError(w)
		return
	}

	result, err := s.news.Fetch(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeUserNotFound(w)
			return
		}
		s.log.Error("news fetch failed", zap.String("email", email), zap.Error(err))
		writeInternalError(w)
		return
	}

	articles := result.Articles
	if articles == nil {
		articles = []model.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"news": articles})
}
