package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/collector"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/result"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const valuePrefix = "value."

// Server is the HTTP frontend. Each browser session owns one builder; every
// action is a plain form POST answered with a redirect or, on validation
// failure, a 422 page carrying inline errors.
type Server struct {
	opts      Options
	sessions  *SessionStore
	renderers *render.Registry
	theme     *render.ThemeConfig
	logger    *zap.Logger

	base     string
	patterns []string
}

// New builds a Server. The theme is resolved once at construction.
func New(fns ...OptionFn) (*Server, error) {
	opts := NewOptions(fns...)

	registry := opts.Renderers
	if registry == nil {
		return nil, fmt.Errorf("server: missing renderer registry")
	}
	if !registry.Has("html") {
		return nil, fmt.Errorf("server: html renderer: %w", render.ErrRendererNotFound)
	}
	if !registry.Has("json") {
		if err := registry.Register(render.JSONRenderer{}); err != nil {
			return nil, fmt.Errorf("server: register json renderer: %w", err)
		}
	}

	selection, err := opts.ThemeSelector.Select(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("server: select theme: %w", err)
	}

	logger := opts.Logger.Named("server")
	builderOpts := append([]builder.Option(nil), opts.BuilderOptions...)
	factory := func(id string, toasts notify.Notifier) *builder.Builder {
		sessionOpts := append(append([]builder.Option(nil), builderOpts...),
			builder.WithNotifier(toasts),
			builder.WithLogger(logger.With(zap.String("session", id))),
		)
		return builder.New(sessionOpts...)
	}

	return &Server{
		opts:      opts,
		sessions:  NewSessionStore(opts.SessionTTL, opts.ToastLimit, opts.Now, factory),
		renderers: registry,
		theme:     render.ResolveTheme(selection),
		logger:    logger,
	}, nil
}

// Sessions exposes the session store, e.g. to run its sweeper.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Handler returns a mux with every route registered under basePath.
func (s *Server) Handler(basePath string) (http.Handler, error) {
	mux := http.NewServeMux()
	if err := s.RegisterRoutes(mux, basePath); err != nil {
		return nil, err
	}
	return mux, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.writePage(w, r, http.StatusOK, sess, sess.Toasts.Drain())
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.postSession(w, r)
	if !ok {
		return
	}
	_, err := sess.Builder.Define(r.Context(), collector.Draft{
		Label:        r.PostForm.Get(collector.KeyLabel),
		DefaultValue: r.PostForm.Get(collector.KeyDefaultValue),
		Type:         r.PostForm.Get(collector.KeyType),
	})
	if err != nil {
		s.fail(w, r, sess, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.postSession(w, r)
	if !ok {
		return
	}
	applyValues(sess.Builder, r)
	sess.Builder.RemoveByID(r.PathValue("id"))
	s.redirectHome(w, r)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.postSession(w, r)
	if !ok {
		return
	}
	applyValues(sess.Builder, r)
	sess.Builder.MoveByID(r.PathValue("id"))
	s.redirectHome(w, r)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.postSession(w, r)
	if !ok {
		return
	}
	applyValues(sess.Builder, r)
	if _, err := sess.Builder.Submit(r.Context()); err != nil {
		s.fail(w, r, sess, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	record, ok := sess.Builder.LastResult()
	if !ok {
		writeError(w, errNoResult)
		return
	}

	format := result.OutputFormatJSON
	if raw := strings.TrimSpace(r.URL.Query().Get("format")); raw != "" {
		parsed, err := result.ParseFormat(raw)
		if err != nil {
			writeError(w, errUnknownFormat)
			return
		}
		format = parsed
	}

	payload, err := result.Encode(record, format)
	if err != nil {
		s.logger.Error("encode result failed", zap.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	doc := openapi.Document(sess.Builder.List().Fields(), openapi.Options{
		Title:      s.opts.Title,
		SubmitPath: s.base + "/submit",
	})
	payload, err := openapi.MarshalJSON(doc)
	if err != nil {
		s.logger.Error("encode schema failed", zap.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// fail renders validation errors inline with 422; anything else is a
// server error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, sess *Session, err error) {
	if _, ok := validation.As(err); ok {
		toasts := append(sess.Toasts.Drain(), notify.Notification{
			Level:   notify.LevelError,
			Message: "Please fix the highlighted fields.",
		})
		s.writePage(w, r, http.StatusUnprocessableEntity, sess, toasts)
		return
	}
	s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, err)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, sess *Session, toasts []notify.Notification) {
	renderer, err := s.rendererFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page := render.NewPage(sess.Builder.State(), render.PageOptions{
		Title:    s.opts.Title,
		BasePath: s.base,
		Toasts:   toasts,
		Theme:    s.theme,
	})
	out, err := renderer.Render(r.Context(), page, render.Options{
		Theme:  s.theme,
		Hidden: []render.HiddenField{render.CSRFToken(s.opts.CSRFField, sess.CSRF)},
	})
	if err != nil {
		s.logger.Error("render page failed", zap.String("renderer", renderer.Name()), zap.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// session resolves the caller's session, starting a new one when the cookie
// is missing or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(s.opts.CookieName); err == nil {
		if sess, ok := s.sessions.Get(cookie.Value); ok {
			return sess
		}
	}
	sess := s.sessions.Create()
	path := s.base
	if path == "" {
		path = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    sess.ID,
		Path:     path,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", zap.String("session", sess.ID))
	return sess
}

// postSession parses the form body and checks the CSRF token.
func (s *Server) postSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, errMalformedInput)
		return nil, false
	}
	sess := s.session(w, r)
	token := r.PostForm.Get(s.opts.CSRFField)
	if subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRF)) != 1 {
		s.logger.Warn("csrf mismatch", zap.String("session", sess.ID), zap.String("path", r.URL.Path))
		writeError(w, errCSRF)
		return nil, false
	}
	return sess, true
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	target := s.base + "/"
	if renderer, err := s.rendererFor(r); err == nil && renderer.Name() == "json" {
		target += "?format=json"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// applyValues copies posted value.<id> inputs into the builder so edits
// survive remove, move and submit round trips.
func applyValues(b *builder.Builder, r *http.Request) {
	values := map[string]string{}
	for key, posted := range r.PostForm {
		if !strings.HasPrefix(key, valuePrefix) || len(posted) == 0 {
			continue
		}
		values[strings.TrimPrefix(key, valuePrefix)] = posted[0]
	}
	if len(values) > 0 {
		b.UpdateValues(values)
	}
}

func (s *Server) rendererFor(r *http.Request) (render.Renderer, error) {
	return s.renderers.Negotiate(r.URL.Query().Get("format"), r.Header.Get("Accept"), "html")
}

func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if errors.Is(err, render.ErrRendererNotFound) {
		code = http.StatusNotAcceptable
	}
	http.Error(w, http.StatusText(code), code)
}
