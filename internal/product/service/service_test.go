package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"innoshop/internal/product/model"
	"innoshop/internal/product/repository"
	"innoshop/internal/result"
)

type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product), nextID: 1}
}

func (r *stubProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = r.nextID
	r.nextID++
	product.IsDeleted = false
	product.CreatedAt = time.Now().UTC()
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id uint) (*model.Product, error) {
	product, ok := r.products[id]
	if !ok || product.IsDeleted || !product.IsUserActive {
		return nil, repository.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) GetAll(_ context.Context, filter *model.Filter) ([]*model.Product, error) {
	var products []*model.Product
	for _, product := range r.products {
		if !r.matches(product, filter) {
			continue
		}
		clone := *product
		products = append(products, &clone)
	}
	return products, nil
}

func (r *stubProductRepo) GetPaged(ctx context.Context, pageNumber, pageSize int, filter *model.Filter) ([]*model.Product, error) {
	pageNumber = max(1, pageNumber)
	pageSize = min(max(1, pageSize), 100)

	products, err := r.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(products) {
		return nil, nil
	}
	end := min(start+pageSize, len(products))
	return products[start:end], nil
}

func (r *stubProductRepo) GetByOwner(_ context.Context, ownerID uint) ([]*model.Product, error) {
	var products []*model.Product
	for _, product := range r.products {
		if product.UserID == ownerID && !product.IsDeleted {
			clone := *product
			products = append(products, &clone)
		}
	}
	return products, nil
}

func (r *stubProductRepo) Update(_ context.Context, product *model.Product) error {
	stored, ok := r.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	stored.Name = product.Name
	stored.Description = product.Description
	stored.Price = product.Price
	stored.IsAvailable = product.IsAvailable
	return nil
}

func (r *stubProductRepo) SetDeleted(_ context.Context, id uint, deleted bool) error {
	product, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.IsDeleted = deleted
	return nil
}

func (r *stubProductRepo) UpdateOwnerActiveStatus(_ context.Context, ownerID uint, isActive bool) error {
	for _, product := range r.products {
		if product.UserID == ownerID {
			product.IsUserActive = isActive
		}
	}
	return nil
}

func (r *stubProductRepo) matches(product *model.Product, filter *model.Filter) bool {
	includeDeleted := filter != nil && filter.IncludeDeleted
	includeInactive := filter != nil && filter.IncludeInactiveOwners

	if product.IsDeleted && !includeDeleted {
		return false
	}
	if !product.IsUserActive && !includeInactive {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.OwnerID != nil && product.UserID != *filter.OwnerID {
		return false
	}
	if filter.NameContains != nil && !strings.Contains(product.Name, *filter.NameContains) {
		return false
	}
	if filter.MinPrice != nil && product.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && product.Price > *filter.MaxPrice {
		return false
	}
	if filter.IsAvailable != nil && product.IsAvailable != *filter.IsAvailable {
		return false
	}
	return true
}

// stubUserDirectory treats every listed ID as existing; confirmed controls
// the email-confirmation answer for all of them.
type stubUserDirectory struct {
	known     map[uint]bool
	confirmed bool
}

func (d *stubUserDirectory) Exists(_ context.Context, userID uint) bool {
	return d.known[userID]
}

func (d *stubUserDirectory) IsEmailConfirmed(_ context.Context, userID uint) bool {
	return d.known[userID] && d.confirmed
}

func newTestService() (*ProductService, *stubProductRepo, *stubUserDirectory) {
	repo := newStubProductRepo()
	users := &stubUserDirectory{known: map[uint]bool{1: true, 2: true}, confirmed: true}
	return NewProductService(repo, users), repo, users
}

func productRequest() *model.ProductRequest {
	return &model.ProductRequest{
		Name:        "Mechanical keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       89.99,
		IsAvailable: true,
	}
}

func seedProduct(t *testing.T, repo *stubProductRepo, ownerID uint) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:         "Mechanical keyboard",
		Description:  "Tenkeyless, brown switches",
		Price:        89.99,
		IsAvailable:  true,
		UserID:       ownerID,
		IsUserActive: true,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestCreateRequiresConfirmedEmail(t *testing.T) {
	svc, repo, users := newTestService()
	users.confirmed = false

	res := svc.Create(context.Background(), 1, productRequest())
	if res.Code != result.Forbidden {
		t.Fatalf("expected Forbidden, got %v (%v)", res.Code, res.Errors)
	}
	if len(repo.products) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()

	req := productRequest()
	req.Name = ""
	req.Price = -5

	res := svc.Create(context.Background(), 1, req)
	if res.Code != result.Validation {
		t.Fatalf("expected Validation, got %v", res.Code)
	}
	if len(res.Errors) < 2 {
		t.Fatalf("expected messages for both fields, got %v", res.Errors)
	}
}

func TestCreateSetsOwnerAndVisibility(t *testing.T) {
	svc, repo, _ := newTestService()

	res := svc.Create(context.Background(), 1, productRequest())
	if !res.IsSuccess() {
		t.Fatalf("create failed: %v", res.Errors)
	}

	stored := repo.products[res.Value.ID]
	if stored.UserID != 1 {
		t.Fatalf("expected owner 1, got %d", stored.UserID)
	}
	if !stored.IsUserActive {
		t.Fatal("new products should start with an active owner flag")
	}
	if stored.IsDeleted {
		t.Fatal("new products should not be deleted")
	}
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, repo, 1)

	res := svc.Update(context.Background(), 2, product.ID, productRequest())
	if res.Code != result.Forbidden {
		t.Fatalf("expected Forbidden, got %v (%v)", res.Code, res.Errors)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _, _ := newTestService()

	res := svc.Update(context.Background(), 1, 42, productRequest())
	if res.Code != result.NotFound {
		t.Fatalf("expected NotFound, got %v", res.Code)
	}
}

func TestUpdateConfirmationGatePrecedesLookup(t *testing.T) {
	svc, _, users := newTestService()
	users.confirmed = false

	// Unconfirmed requester on a nonexistent product: the gate fires first.
	res := svc.Update(context.Background(), 1, 42, productRequest())
	if res.Code != result.Forbidden {
		t.Fatalf("expected Forbidden, got %v", res.Code)
	}
}

func TestUpdateAppliesChanges(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, repo, 1)

	req := productRequest()
	req.Name = "Ergonomic keyboard"
	req.Price = 129.50
	req.IsAvailable = false

	res := svc.Update(context.Background(), 1, product.ID, req)
	if !res.IsSuccess() {
		t.Fatalf("update failed: %v", res.Errors)
	}

	stored := repo.products[product.ID]
	if stored.Name != "Ergonomic keyboard" || stored.Price != 129.50 || stored.IsAvailable {
		t.Fatalf("changes not applied: %+v", stored)
	}
}

func TestDeleteSoftDeletes(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, repo, 1)

	res := svc.Delete(context.Background(), 1, product.ID)
	if !res.IsSuccess() {
		t.Fatalf("delete failed: %v", res.Errors)
	}
	if !repo.products[product.ID].IsDeleted {
		t.Fatal("product should be soft-deleted, not removed")
	}

	// A deleted product reads as absent.
	lookup := svc.GetByID(context.Background(), product.ID)
	if lookup.Code != result.NotFound {
		t.Fatalf("expected NotFound after delete, got %v", lookup.Code)
	}
}

func TestDeleteNonOwnerForbidden(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, repo, 1)

	res := svc.Delete(context.Background(), 2, product.ID)
	if res.Code != result.Forbidden {
		t.Fatalf("expected Forbidden, got %v", res.Code)
	}
	if repo.products[product.ID].IsDeleted {
		t.Fatal("non-owners must not delete products")
	}
}

func TestDeleteOwnershipPrecedesConfirmationGate(t *testing.T) {
	svc, repo, users := newTestService()
	product := seedProduct(t, repo, 1)
	users.confirmed = false

	// A non-owner with an unconfirmed email gets the ownership error, not
	// the confirmation one.
	res := svc.Delete(context.Background(), 2, product.ID)
	if res.Code != result.Forbidden {
		t.Fatalf("expected Forbidden, got %v", res.Code)
	}
	if res.Errors[0] != "You can only modify your own products" {
		t.Fatalf("unexpected message: %q", res.Errors[0])
	}
}

func TestGetByIDHidesInactiveOwner(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, repo, 1)

	if res := svc.UpdateOwnerActiveStatus(context.Background(), 1, false); !res.IsSuccess() {
		t.Fatalf("status update failed: %v", res.Errors)
	}

	lookup := svc.GetByID(context.Background(), product.ID)
	if lookup.Code != result.NotFound {
		t.Fatalf("expected NotFound for inactive owner, got %v", lookup.Code)
	}
}

func TestOwnerStatusRoundTrip(t *testing.T) {
	svc, repo, _ := newTestService()
	seedProduct(t, repo, 1)
	seedProduct(t, repo, 1)
	other := seedProduct(t, repo, 2)

	if res := svc.UpdateOwnerActiveStatus(context.Background(), 1, false); !res.IsSuccess() {
		t.Fatalf("status update failed: %v", res.Errors)
	}

	all := svc.GetAll(context.Background(), nil)
	if !all.IsSuccess() {
		t.Fatalf("list failed: %v", all.Errors)
	}
	if len(all.Value) != 1 || all.Value[0].ID != other.ID {
		t.Fatalf("expected only the other owner's product, got %+v", all.Value)
	}

	// Reactivation restores visibility.
	if res := svc.UpdateOwnerActiveStatus(context.Background(), 1, true); !res.IsSuccess() {
		t.Fatalf("status update failed: %v", res.Errors)
	}

	all = svc.GetAll(context.Background(), nil)
	if len(all.Value) != 3 {
		t.Fatalf("expected all three products visible, got %d", len(all.Value))
	}
}

func TestGetAllPriceFilter(t *testing.T) {
	svc, repo, _ := newTestService()
	cheap := seedProduct(t, repo, 1)
	repo.products[cheap.ID].Price = 10
	expensive := seedProduct(t, repo, 1)
	repo.products[expensive.ID].Price = 500

	minPrice := 100.0
	res := svc.GetAll(context.Background(), &model.Filter{MinPrice: &minPrice})
	if !res.IsSuccess() {
		t.Fatalf("list failed: %v", res.Errors)
	}
	if len(res.Value) != 1 || res.Value[0].ID != expensive.ID {
		t.Fatalf("expected only the expensive product, got %+v", res.Value)
	}
}

func TestGetAllNameFilter(t *testing.T) {
	svc, repo, _ := newTestService()
	keyboard := seedProduct(t, repo, 1)
	mouse := seedProduct(t, repo, 1)
	repo.products[mouse.ID].Name = "Wireless mouse"

	name := "keyboard"
	res := svc.GetAll(context.Background(), &model.Filter{NameContains: &name})
	if !res.IsSuccess() {
		t.Fatalf("list failed: %v", res.Errors)
	}
	if len(res.Value) != 1 || res.Value[0].ID != keyboard.ID {
		t.Fatalf("expected only the keyboard, got %+v", res.Value)
	}
}

func TestGetAllVisibilityOverrides(t *testing.T) {
	svc, repo, _ := newTestService()
	deleted := seedProduct(t, repo, 1)
	repo.products[deleted.ID].IsDeleted = true
	hidden := seedProduct(t, repo, 2)
	repo.products[hidden.ID].IsUserActive = false
	visible := seedProduct(t, repo, 1)

	// Default view hides both.
	res := svc.GetAll(context.Background(), &model.Filter{})
	if len(res.Value) != 1 || res.Value[0].ID != visible.ID {
		t.Fatalf("expected only the visible product, got %+v", res.Value)
	}

	res = svc.GetAll(context.Background(), &model.Filter{IncludeDeleted: true})
	if len(res.Value) != 2 {
		t.Fatalf("expected deleted row included, got %+v", res.Value)
	}

	res = svc.GetAll(context.Background(), &model.Filter{IncludeInactiveOwners: true})
	if len(res.Value) != 2 {
		t.Fatalf("expected inactive-owner row included, got %+v", res.Value)
	}

	res = svc.GetAll(context.Background(), &model.Filter{
		IncludeDeleted:        true,
		IncludeInactiveOwners: true,
	})
	if len(res.Value) != 3 {
		t.Fatalf("expected all rows included, got %+v", res.Value)
	}
}

func TestGetPagedClampsOutOfRange(t *testing.T) {
	svc, repo, _ := newTestService()
	for i := 0; i < 5; i++ {
		seedProduct(t, repo, 1)
	}

	res := svc.GetPaged(context.Background(), -3, 2, nil)
	if !res.IsSuccess() {
		t.Fatalf("paged list failed: %v", res.Errors)
	}
	// Negative page clamps to the first page.
	if len(res.Value) != 2 {
		t.Fatalf("expected a full first page of 2, got %d", len(res.Value))
	}
}

func TestGetByOwnerUnknownOwner(t *testing.T) {
	svc, _, _ := newTestService()

	res := svc.GetByOwner(context.Background(), 99)
	if res.Code != result.NotFound {
		t.Fatalf("expected NotFound for unknown owner, got %v", res.Code)
	}
}

func TestGetByOwnerExcludesDeleted(t *testing.T) {
	svc, repo, _ := newTestService()
	kept := seedProduct(t, repo, 1)
	dropped := seedProduct(t, repo, 1)
	repo.products[dropped.ID].IsDeleted = true

	res := svc.GetByOwner(context.Background(), 1)
	if !res.IsSuccess() {
		t.Fatalf("owner list failed: %v", res.Errors)
	}
	if len(res.Value) != 1 || res.Value[0].ID != kept.ID {
		t.Fatalf("expected only the kept product, got %+v", res.Value)
	}
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)
var _ UserDirectory = (*stubUserDirectory)(nil)
