// Package app is the view synchronizer: it turns user intents into state
// changes, performs their side effects through the services, and re-renders
// exactly the regions each intent affects.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/helpline-directory/internal/domain"
	"github.com/pkordes/helpline-directory/internal/render"
)

// Status texts shown after form submissions.
const (
	HelplineAddedText  = "✅ Helpline added successfully!"
	HelplineFailedText = "❌ Failed to add helpline. Please try again."
	ReviewAddedText    = "✅ Thank you! Your review has been added."
	ReviewFailedText   = "❌ Failed to submit review. Please try again."
	NoSubjectText      = "Please select a helpline first"
	NoRatingText       = "Please select a rating"
)

// followUpTimeout bounds the remote calls made by a delayed follow-up.
const followUpTimeout = 30 * time.Second

// Directory is the remote-backed directory the synchronizer reads and writes.
type Directory interface {
	Helplines(ctx context.Context) ([]domain.Helpline, error)
	AddHelpline(ctx context.Context, h domain.NewHelpline) error
	Reviews(ctx context.Context, helplineID int) ([]domain.Review, error)
	SubmitReview(ctx context.Context, r domain.NewReview) error
}

// Favorites is the per-client favorites store.
type Favorites interface {
	All(ctx context.Context, client string) ([]domain.FavoriteEntry, error)
	Toggle(ctx context.Context, client string, id int, record domain.Helpline) (bool, error)
}

// Preferences is the per-client preference store.
type Preferences interface {
	DarkMode(ctx context.Context, client string) (bool, error)
	ToggleDarkMode(ctx context.Context, client string) (bool, error)
}

// Scheduler runs f once after d. The returned function cancels it and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Options tunes a Synchronizer. Zero values fall back to defaults.
type Options struct {
	HelplineStatusDelay time.Duration
	ReviewStatusDelay   time.Duration
	// RatingConcurrency caps concurrent review fetches for rating badges.
	RatingConcurrency int
	// DirectoryURL is named in the "failed to load" message.
	DirectoryURL string
	Scheduler    Scheduler
}

// Update carries the regions an intent changed, keyed by region id.
// RefreshAfterMs, when set, tells the client to collect follow-up
// regions after that many milliseconds.
type Update struct {
	Regions        map[string]string `json:"regions"`
	RefreshAfterMs int64             `json:"refreshAfterMs,omitempty"`
}

func newUpdate() Update {
	return Update{Regions: make(map[string]string)}
}

func (u *Update) refreshAfter(d time.Duration) {
	if ms := d.Milliseconds(); ms > u.RefreshAfterMs {
		u.RefreshAfterMs = ms
	}
}

// Synchronizer applies intents to sessions.
type Synchronizer struct {
	dir   Directory
	favs  Favorites
	prefs Preferences
	log   *slog.Logger
	opts  Options
}

// New constructs a Synchronizer.
func New(dir Directory, favs Favorites, prefs Preferences, log *slog.Logger, opts Options) *Synchronizer {
	if opts.HelplineStatusDelay <= 0 {
		opts.HelplineStatusDelay = 2 * time.Second
	}
	if opts.ReviewStatusDelay <= 0 {
		opts.ReviewStatusDelay = 1500 * time.Millisecond
	}
	if opts.RatingConcurrency <= 0 {
		opts.RatingConcurrency = 4
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}
	return &Synchronizer{dir: dir, favs: favs, prefs: prefs, log: log, opts: opts}
}

// Dispatch applies one intent to sess and returns the re-rendered regions.
// Errors wrapping domain.ErrValidation or domain.ErrNotFound reject the
// intent without changing state; remote failures are reported in the view.
func (s *Synchronizer) Dispatch(ctx context.Context, sess *Session, in Intent) (Update, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.apply(ctx, sess, in)
}

// Page starts a fresh page for sess and renders the full document.
func (s *Synchronizer) Page(ctx context.Context, sess *Session) (string, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	u, err := s.apply(ctx, sess, PageLoaded{})
	if err != nil {
		return "", err
	}
	return render.Page(render.PageView{
		Filter:     sess.state.Filter,
		Categories: render.Categories(sess.state.Helplines),
		Regions:    u.Regions,
	}), nil
}

// View re-renders every top-level region from the current state without
// reloading anything.
func (s *Synchronizer) View(ctx context.Context, sess *Session) Update {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.state.Loaded {
		s.restore(ctx, sess)
	}
	return s.fullView(ctx, sess)
}

// Updates returns and clears the regions re-rendered by follow-ups since
// the last call.
func (s *Synchronizer) Updates(sess *Session) Update {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	u := Update{Regions: sess.dirty}
	sess.dirty = make(map[string]string)
	if len(sess.pending) > 0 {
		u.refreshAfter(s.opts.HelplineStatusDelay)
	}
	return u
}

// Favorites returns the stored favorites of sess.
func (s *Synchronizer) Favorites(ctx context.Context, sess *Session) ([]domain.FavoriteEntry, error) {
	return s.favs.All(ctx, sess.ID)
}

func (s *Synchronizer) apply(ctx context.Context, sess *Session, in Intent) (Update, error) {
	st := &sess.state
	u := newUpdate()

	// A tab can outlive its session; the replacement reloads what the page
	// is still showing before acting on it.
	if _, fresh := in.(PageLoaded); !fresh && !st.Loaded {
		s.restore(ctx, sess)
	}

	switch in := in.(type) {
	case PageLoaded:
		sess.stopPendingLocked()
		sess.dirty = make(map[string]string)
		*st = State{Badges: make(map[int]render.Badge)}
		s.restore(ctx, sess)
		return s.fullView(ctx, sess), nil

	case FilterRequested:
		st.Filter = domain.Filter{City: in.City, Category: in.Category}
		u.Regions[render.RegionHelplines] = s.helplinesRegion(ctx, sess)

	case FilterReset:
		st.Filter = domain.Filter{}
		u.Regions[render.RegionHelplines] = s.helplinesRegion(ctx, sess)

	case FavoriteToggled:
		record, ok := st.lookup(in.ID)
		if !ok {
			// A favorite whose helpline left the directory can still be removed.
			entries := s.favorites(ctx, sess)
			set := domain.NewFavoriteSet(entries)
			if record, ok = set[in.ID]; !ok {
				return Update{}, fmt.Errorf("app.Synchronizer.apply: helpline %d: %w", in.ID, domain.ErrNotFound)
			}
		}
		if _, err := s.favs.Toggle(ctx, sess.ID, in.ID, record); err != nil {
			return Update{}, fmt.Errorf("app.Synchronizer.apply: %w", err)
		}
		u.Regions[render.RegionFavorites] = render.FavoriteCards(s.favorites(ctx, sess))
		u.Regions[render.RegionHelplines] = s.helplinesRegion(ctx, sess)

	case ReviewModalOpened:
		h, ok := st.lookup(in.ID)
		if !ok {
			set := domain.NewFavoriteSet(s.favorites(ctx, sess))
			if h, ok = set[in.ID]; !ok {
				return Update{}, fmt.Errorf("app.Synchronizer.apply: helpline %d: %w", in.ID, domain.ErrNotFound)
			}
		}
		st.Subject = &Subject{ID: h.ID, Name: h.Name}
		st.SelectedRating, st.HoverRating = 0, 0
		st.ReviewStatus = render.Status{}
		st.Reviews = s.loadReviews(ctx, h.ID)
		u.Regions[render.RegionModal] = s.modalRegion(sess)

	case ReviewModalClosed:
		st.Subject = nil
		st.Reviews = render.ReviewsView{}
		st.SelectedRating, st.HoverRating = 0, 0
		st.ReviewStatus = render.Status{}
		u.Regions[render.RegionModal] = s.modalRegion(sess)

	case RatingSelected:
		if err := checkRating(in.Rating); err != nil {
			return Update{}, err
		}
		st.SelectedRating, st.HoverRating = in.Rating, 0
		u.Regions[render.RegionStars] = render.StarWidget(st.displayRating())

	case RatingHovered:
		if err := checkRating(in.Rating); err != nil {
			return Update{}, err
		}
		st.HoverRating = in.Rating
		u.Regions[render.RegionStars] = render.StarWidget(st.displayRating())

	case RatingHoverEnded:
		st.HoverRating = 0
		u.Regions[render.RegionStars] = render.StarWidget(st.displayRating())

	case ReviewSubmitted:
		return s.submitReview(ctx, sess, in)

	case HelplineSubmitted:
		err := s.dir.AddHelpline(ctx, in.Helpline)
		switch {
		case errors.Is(err, domain.ErrValidation):
			return Update{}, err
		case err != nil:
			s.log.ErrorContext(ctx, "add helpline failed", "client", sess.ID, "error", err)
			st.FormStatus = render.Status{Kind: render.StatusError, Text: HelplineFailedText}
		default:
			st.FormStatus = render.Status{Kind: render.StatusSuccess, Text: HelplineAddedText}
		}
		s.schedule(sess, s.opts.HelplineStatusDelay, HelplineStatusExpired{Reload: err == nil})
		u.refreshAfter(s.opts.HelplineStatusDelay)
		u.Regions[render.RegionFormMessage] = render.StatusMessage(st.FormStatus)

	case DarkModeToggled:
		on, err := s.prefs.ToggleDarkMode(ctx, sess.ID)
		if err != nil {
			return Update{}, fmt.Errorf("app.Synchronizer.apply: %w", err)
		}
		st.DarkMode = on
		u.Regions[render.RegionTheme] = render.ThemeClass(on)
		u.Regions[render.RegionDarkToggle] = render.DarkModeLabel(on)

	case HelplineStatusExpired:
		st.FormStatus = render.Status{}
		u.Regions[render.RegionFormMessage] = render.StatusMessage(st.FormStatus)
		if in.Reload {
			s.loadHelplines(ctx, sess)
			u.Regions[render.RegionHelplines] = s.helplinesRegion(ctx, sess)
		}

	case ReviewStatusExpired:
		st.ReviewStatus = render.Status{}
		open := st.Subject != nil
		if open {
			u.Regions[render.RegionReviewMessage] = render.StatusMessage(st.ReviewStatus)
		}
		if in.Refresh {
			// The badge is refreshed for the helpline reviewed at submit
			// time, even if the modal has since moved to another one.
			badge := s.loadBadge(ctx, in.ID)
			st.Badges[in.ID] = badge
			u.Regions[render.RatingRegion(in.ID)] = render.RatingBadge(badge)
			if open && st.Subject.ID == in.ID {
				st.Reviews = s.loadReviews(ctx, in.ID)
				u.Regions[render.RegionReviews] = render.Reviews(st.Reviews)
			}
		}

	default:
		return Update{}, fmt.Errorf("app.Synchronizer.apply: unknown intent %T", in)
	}
	return u, nil
}

func (s *Synchronizer) submitReview(ctx context.Context, sess *Session, in ReviewSubmitted) (Update, error) {
	st := &sess.state
	if st.Subject == nil {
		return Update{}, fmt.Errorf("%w: %s", domain.ErrValidation, NoSubjectText)
	}
	rating := in.Rating
	if rating == 0 {
		rating = st.SelectedRating
	}
	if rating == 0 {
		return Update{}, fmt.Errorf("%w: %s", domain.ErrValidation, NoRatingText)
	}
	if err := checkRating(rating); err != nil {
		return Update{}, err
	}

	id := st.Subject.ID
	err := s.dir.SubmitReview(ctx, domain.NewReview{
		HelplineID: id,
		UserName:   in.UserName,
		Rating:     rating,
		Comment:    in.Comment,
	})
	if errors.Is(err, domain.ErrValidation) {
		return Update{}, err
	}

	u := newUpdate()
	u.refreshAfter(s.opts.ReviewStatusDelay)
	if err != nil {
		s.log.ErrorContext(ctx, "submit review failed", "client", sess.ID, "helpline_id", id, "error", err)
		st.ReviewStatus = render.Status{Kind: render.StatusError, Text: ReviewFailedText}
		s.schedule(sess, s.opts.ReviewStatusDelay, ReviewStatusExpired{ID: id})
		u.Regions[render.RegionReviewMessage] = render.StatusMessage(st.ReviewStatus)
		return u, nil
	}

	st.ReviewStatus = render.Status{Kind: render.StatusSuccess, Text: ReviewAddedText}
	st.SelectedRating, st.HoverRating = 0, 0
	s.schedule(sess, s.opts.ReviewStatusDelay, ReviewStatusExpired{ID: id, Refresh: true})
	// Re-rendering the whole modal also clears the form inputs.
	u.Regions[render.RegionModal] = s.modalRegion(sess)
	return u, nil
}

func checkRating(r int) error {
	if r < 0 || r > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}
	return nil
}

// schedule runs in against sess after d. Follow-ups share the session lock
// with Dispatch, and their regions accumulate until Updates collects them.
func (s *Synchronizer) schedule(sess *Session, d time.Duration, in Intent) {
	sess.nextTimer++
	id := sess.nextTimer
	sess.pending[id] = s.opts.Scheduler.AfterFunc(d, func() {
		ctx, cancel := context.WithTimeout(context.Background(), followUpTimeout)
		defer cancel()

		sess.mu.Lock()
		defer sess.mu.Unlock()
		if _, ok := sess.pending[id]; !ok || sess.closed {
			return
		}
		delete(sess.pending, id)

		u, err := s.apply(ctx, sess, in)
		if err != nil {
			s.log.Error("follow-up failed", "client", sess.ID, "intent", fmt.Sprintf("%T", in), "error", err)
			return
		}
		for region, html := range u.Regions {
			sess.dirty[region] = html
		}
	})
}

// restore loads the persisted dark-mode preference and the directory.
func (s *Synchronizer) restore(ctx context.Context, sess *Session) {
	dark, err := s.prefs.DarkMode(ctx, sess.ID)
	if err != nil {
		s.log.WarnContext(ctx, "dark mode preference unavailable", "client", sess.ID, "error", err)
	}
	sess.state.DarkMode = dark
	s.loadHelplines(ctx, sess)
}

func (s *Synchronizer) loadHelplines(ctx context.Context, sess *Session) {
	st := &sess.state
	st.Loaded = true
	hs, err := s.dir.Helplines(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "load helplines failed", "client", sess.ID, "error", err)
		st.Helplines, st.LoadFailed = nil, true
		return
	}
	st.Helplines, st.LoadFailed = hs, false
	st.Badges = make(map[int]render.Badge)
}

func (s *Synchronizer) loadReviews(ctx context.Context, id int) render.ReviewsView {
	reviews, err := s.dir.Reviews(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "load reviews failed", "helpline_id", id, "error", err)
		return render.ReviewsView{Failed: true}
	}
	return render.ReviewsView{Reviews: reviews}
}

func (s *Synchronizer) loadBadge(ctx context.Context, id int) render.Badge {
	reviews, err := s.dir.Reviews(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "load rating failed", "helpline_id", id, "error", err)
		return render.Badge{State: render.BadgeUnavailable}
	}
	return render.ReadyBadge(reviews)
}

// ensureBadges fetches the rating badge of every helpline without a ready
// one. A failed fetch yields an unavailable badge for that card only and is
// retried on the next render.
func (s *Synchronizer) ensureBadges(ctx context.Context, sess *Session, hs []domain.Helpline) {
	var missing []int
	for _, h := range hs {
		if b, ok := sess.state.Badges[h.ID]; !ok || b.State != render.BadgeReady {
			missing = append(missing, h.ID)
		}
	}
	if len(missing) == 0 {
		return
	}

	badges := make([]render.Badge, len(missing))
	var g errgroup.Group
	g.SetLimit(s.opts.RatingConcurrency)
	for i, id := range missing {
		i, id := i, id
		g.Go(func() error {
			badges[i] = s.loadBadge(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range missing {
		sess.state.Badges[id] = badges[i]
	}
}

// favorites reads the stored favorites; the store already fails open, so an
// error here only means an empty list.
func (s *Synchronizer) favorites(ctx context.Context, sess *Session) []domain.FavoriteEntry {
	entries, err := s.favs.All(ctx, sess.ID)
	if err != nil {
		s.log.WarnContext(ctx, "favorites unavailable", "client", sess.ID, "error", err)
		return nil
	}
	return entries
}

func (s *Synchronizer) helplinesRegion(ctx context.Context, sess *Session) string {
	st := &sess.state
	if st.LoadFailed {
		return render.HelplinesUnavailable(s.opts.DirectoryURL)
	}
	visible := st.Filter.Apply(st.Helplines)
	s.ensureBadges(ctx, sess, visible)
	set := domain.NewFavoriteSet(s.favorites(ctx, sess))
	return render.HelplineCards(visible, set, st.Badges)
}

func (s *Synchronizer) modalRegion(sess *Session) string {
	st := &sess.state
	if st.Subject == nil {
		return render.ReviewModal(render.ModalView{})
	}
	return render.ReviewModal(render.ModalView{
		Open:          true,
		HelplineName:  st.Subject.Name,
		Reviews:       st.Reviews,
		DisplayRating: st.displayRating(),
		Status:        st.ReviewStatus,
	})
}

func (s *Synchronizer) fullView(ctx context.Context, sess *Session) Update {
	st := &sess.state
	u := newUpdate()
	u.Regions[render.RegionTheme] = render.ThemeClass(st.DarkMode)
	u.Regions[render.RegionDarkToggle] = render.DarkModeLabel(st.DarkMode)
	u.Regions[render.RegionHelplines] = s.helplinesRegion(ctx, sess)
	u.Regions[render.RegionFavorites] = render.FavoriteCards(s.favorites(ctx, sess))
	u.Regions[render.RegionFormMessage] = render.StatusMessage(st.FormStatus)
	u.Regions[render.RegionModal] = s.modalRegion(sess)
	return u
}
