package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eventpages/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, e := range f.byID {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	if upd.StartsAt != nil {
		e.StartsAt = upd.StartsAt
	}
	if upd.Venue != nil {
		e.Venue = upd.Venue
	}
	if upd.Capacity != nil {
		e.Capacity = upd.Capacity
	}
	if upd.TemplateID != nil {
		e.TemplateID = *upd.TemplateID
	}
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeVersionRepo is an in-memory PageVersionRepository. SaveConfig mirrors
// the real repo's transaction: it appends a version row and updates the
// event's live config and pointer together.
type fakeVersionRepo struct {
	events  *fakeEventRepo
	byEvent map[string][]*domain.EventPageVersion
	nextID  int
	saveErr error
}

func newFakeVersionRepo(events *fakeEventRepo) *fakeVersionRepo {
	return &fakeVersionRepo{
		events:  events,
		byEvent: make(map[string][]*domain.EventPageVersion),
		nextID:  1,
	}
}

func (f *fakeVersionRepo) SaveConfig(ctx context.Context, eventID string, config json.RawMessage, configVersion int, userID string) (*domain.EventPageVersion, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	e, ok := f.events.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := &domain.EventPageVersion{
		ID:            fmt.Sprintf("ver-%d", f.nextID),
		EventID:       eventID,
		Config:        config,
		ConfigVersion: configVersion,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}
	f.nextID++
	f.byEvent[eventID] = append(f.byEvent[eventID], v)
	e.PageConfig = config
	id := v.ID
	e.CurrentVersionID = &id
	return v, nil
}

func (f *fakeVersionRepo) ListByEventID(ctx context.Context, eventID string, limit int) ([]*domain.EventPageVersion, error) {
	all := f.byEvent[eventID]
	out := make([]*domain.EventPageVersion, 0, len(all))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakeVersionRepo) GetByID(ctx context.Context, eventID, versionID string) (*domain.EventPageVersion, error) {
	for _, v := range f.byEvent[eventID] {
		if v.ID == versionID {
			return v, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeAssetRepo is an in-memory MediaAssetRepository.
type fakeAssetRepo struct {
	byEvent map[string][]*domain.MediaAsset
	nextID  int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{byEvent: make(map[string][]*domain.MediaAsset), nextID: 1}
}

func (f *fakeAssetRepo) Create(ctx context.Context, a *domain.MediaAsset) error {
	a.ID = fmt.Sprintf("asset-%d", f.nextID)
	f.nextID++
	f.byEvent[a.EventID] = append(f.byEvent[a.EventID], a)
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, eventID, assetID string) (*domain.MediaAsset, error) {
	for _, a := range f.byEvent[eventID] {
		if a.ID == assetID {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAssetRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.MediaAsset, error) {
	return f.byEvent[eventID], nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, eventID, assetID string) error {
	assets := f.byEvent[eventID]
	for i, a := range assets {
		if a.ID == assetID {
			f.byEvent[eventID] = append(assets[:i], assets[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakePreviewRepo is an in-memory PreviewTokenRepository.
type fakePreviewRepo struct {
	byHash map[string]*domain.PreviewToken
}

func newFakePreviewRepo() *fakePreviewRepo {
	return &fakePreviewRepo{byHash: make(map[string]*domain.PreviewToken)}
}

func (f *fakePreviewRepo) Create(ctx context.Context, t *domain.PreviewToken) error {
	f.byHash[t.TokenHash] = t
	return nil
}

func (f *fakePreviewRepo) ResolveHash(ctx context.Context, tokenHash string) (string, error) {
	t, ok := f.byHash[tokenHash]
	if !ok || time.Now().After(t.ExpiresAt) {
		return "", domain.ErrNotFound
	}
	return t.EventID, nil
}

// fakeInvitationRepo is an in-memory InvitationRepository.
type fakeInvitationRepo struct {
	invites   []*domain.Invitation
	nextID    int
	createErr error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{nextID: 1}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.invites {
		if existing.EventID == inv.EventID && existing.Email == inv.Email {
			return domain.ErrDuplicateInvite
		}
	}
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	f.invites = append(f.invites, inv)
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	var out []*domain.Invitation
	for _, inv := range f.invites {
		if inv.EventID != eventID {
			continue
		}
		if search != "" && !strings.Contains(inv.Email, strings.ToLower(search)) {
			continue
		}
		out = append(out, inv)
	}
	return out, len(out), nil
}

func (f *fakeInvitationRepo) SetResponse(ctx context.Context, invitationID, status string, guestCount int, respondedAt time.Time) error {
	for _, inv := range f.invites {
		if inv.ID == invitationID {
			inv.Status = status
			inv.GuestCount = guestCount
			inv.RespondedAt = &respondedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeInvitationRepo) CountAcceptedGuests(ctx context.Context, eventID string) (int, error) {
	total := 0
	for _, inv := range f.invites {
		if inv.EventID == eventID && inv.Status == domain.InviteStatusAccepted {
			total += inv.GuestCount
		}
	}
	return total, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

// fakeCodeRepo is an in-memory LoginCodeRepository.
type fakeCodeRepo struct {
	rows   map[string]fakeCodeRow // keyed by id
	nextID int
}

type fakeCodeRow struct {
	email     string
	codeHash  string
	expiresAt time.Time
	createdAt time.Time
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{rows: make(map[string]fakeCodeRow), nextID: 1}
}

func (f *fakeCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	id := fmt.Sprintf("code-%d", f.nextID)
	f.nextID++
	f.rows[id] = fakeCodeRow{email: email, codeHash: codeHash, expiresAt: expiresAt, createdAt: time.Now()}
	return nil
}

func (f *fakeCodeRepo) GetActive(ctx context.Context, email string) (string, string, error) {
	var bestID string
	var best fakeCodeRow
	for id, row := range f.rows {
		if row.email != email || time.Now().After(row.expiresAt) {
			continue
		}
		if bestID == "" || row.createdAt.After(best.createdAt) {
			bestID, best = id, row
		}
	}
	if bestID == "" {
		return "", "", domain.ErrNotFound
	}
	return bestID, best.codeHash, nil
}

func (f *fakeCodeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeOutboxRepo is an in-memory EmailOutboxRepository.
type fakeOutboxRepo struct {
	msgs   []*domain.OutboxMessage
	nextID int
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{nextID: 1}
}

func (f *fakeOutboxRepo) Enqueue(ctx context.Context, msg *domain.OutboxMessage) error {
	msg.ID = fmt.Sprintf("msg-%d", f.nextID)
	f.nextID++
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]*domain.OutboxMessage, error) {
	var out []*domain.OutboxMessage
	for _, m := range f.msgs {
		if m.Status == domain.OutboxStatusPending && m.Attempts < domain.MaxSendAttempts && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	for _, m := range f.msgs {
		if m.ID == id {
			m.Status = domain.OutboxStatusSent
			m.SentAt = &sentAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, attempts int, lastError string) error {
	for _, m := range f.msgs {
		if m.ID == id {
			m.Attempts = attempts
			m.LastError = &lastError
			if attempts >= domain.MaxSendAttempts {
				m.Status = domain.OutboxStatusFailed
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeEmailService records enqueued messages without delivering anything.
type fakeEmailService struct {
	enqueued   []fakeEnqueued
	enqueueErr error
}

type fakeEnqueued struct {
	template  string
	recipient string
	variables map[string]string
}

func (f *fakeEmailService) Enqueue(ctx context.Context, template, recipient string, variables map[string]string) (string, error) {
	if f.enqueueErr != nil {
		return "", f.enqueueErr
	}
	f.enqueued = append(f.enqueued, fakeEnqueued{template: template, recipient: recipient, variables: variables})
	return fmt.Sprintf("msg-%d", len(f.enqueued)), nil
}

func (f *fakeEmailService) ProcessOutbox(ctx context.Context, limit int) (int, error) {
	return 0, nil
}

// fakeCounter is an in-memory PageViewCounter.
type fakeCounter struct {
	recorded []string // event ids
}

func (f *fakeCounter) Record(ctx context.Context, eventID string, at time.Time) error {
	f.recorded = append(f.recorded, eventID)
	return nil
}

func (f *fakeCounter) Summary(ctx context.Context, eventID string, days int, now time.Time) (*domain.PageViewSummary, error) {
	summary := &domain.PageViewSummary{EventID: eventID, Days: make([]domain.DayCount, days)}
	for _, id := range f.recorded {
		if id == eventID {
			summary.Total++
		}
	}
	return summary, nil
}

// fakeStorage is an in-memory ObjectStorage.
type fakeStorage struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	sent    []string // recipients
	sendErr error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	return nil
}

// fakeRenderer renders a canned subject/body for any known template.
type fakeRenderer struct {
	renderErr error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.renderErr != nil {
		return "", "", "", f.renderErr
	}
	return "subject: " + templateName, "<p>hi</p>", "hi", nil
}

// plainHasher is a CodeHasher with no real hashing, for deterministic tests.
type plainHasher struct{}

func (plainHasher) Hash(code string) (string, error) { return "hash:" + code, nil }

func (plainHasher) Compare(hash, code string) error {
	if hash != "hash:"+code {
		return fmt.Errorf("code mismatch")
	}
	return nil
}

// staticIssuer issues predictable tokens.
type staticIssuer struct{}

func (staticIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-for-" + userID, nil
}
