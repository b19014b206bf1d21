package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/administrator"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
)

// 内存仓储桩，只为服务层测试服务，未覆盖的方法按最简单方式实现

type pageCall struct {
	limit  int
	offset int
}

type fakeOrderRepo struct {
	orders           map[string]*order.Order
	items            map[int64][]*order.Item
	summaries        []*order.Summary
	total            int64
	stats            map[int64]*order.CustomerStats
	pageCalls        []pageCall
	seen             []string
	getByNumberCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]*order.Order),
		items:  make(map[int64][]*order.Item),
		stats:  make(map[int64]*order.CustomerStats),
	}
}

func (f *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	f.getByNumberCalls++
	o, ok := f.orders[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) ListItems(_ context.Context, orderID int64) ([]*order.Item, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) ListByCustomer(_ context.Context, _ int64, limit, offset int) ([]*order.Summary, error) {
	f.pageCalls = append(f.pageCalls, pageCall{limit: limit, offset: offset})
	return f.summaries, nil
}

func (f *fakeOrderRepo) CountByCustomer(context.Context, int64) (int64, error) {
	return f.total, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context, limit, offset int) ([]*order.Summary, error) {
	f.pageCalls = append(f.pageCalls, pageCall{limit: limit, offset: offset})
	return f.summaries, nil
}

func (f *fakeOrderRepo) CountAll(context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeOrderRepo) MarkSeen(_ context.Context, number string) error {
	f.seen = append(f.seen, number)
	if o, ok := f.orders[number]; ok {
		o.Seen = true
	}
	return nil
}

func (f *fakeOrderRepo) StatsByCustomer(_ context.Context, customerID int64) (*order.CustomerStats, error) {
	if st, ok := f.stats[customerID]; ok {
		return st, nil
	}
	return &order.CustomerStats{}, nil
}

type fakeProductRepo struct {
	products  map[int64]*product.Product
	images    map[int64][]string
	nextID    int64
	pageCalls []pageCall
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[int64]*product.Product),
		images:   make(map[int64][]string),
		nextID:   1,
	}
}

func (f *fakeProductRepo) add(p *product.Product) *product.Product {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context, category string, limit, offset int) ([]*product.Product, error) {
	f.pageCalls = append(f.pageCalls, pageCall{limit: limit, offset: offset})
	out := make([]*product.Product, 0, len(f.products))
	for id := int64(1); id < f.nextID; id++ {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductRepo) Count(_ context.Context, category string) (int64, error) {
	var n int64
	for _, p := range f.products {
		if category == "" || p.Category == category {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	f.add(p)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	delete(f.products, id)
	delete(f.images, id)
	return nil
}

func (f *fakeProductRepo) ListImages(_ context.Context, productID int64) ([]*product.Image, error) {
	urls := f.images[productID]
	out := make([]*product.Image, 0, len(urls))
	for i, u := range urls {
		out = append(out, &product.Image{ID: int64(i + 1), URL: u, ProductID: productID})
	}
	return out, nil
}

func (f *fakeProductRepo) ListImagesForProducts(_ context.Context, productIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	for _, id := range productIDs {
		if urls, ok := f.images[id]; ok {
			out[id] = urls
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AddImage(_ context.Context, img *product.Image) error {
	f.images[img.ProductID] = append(f.images[img.ProductID], img.URL)
	img.ID = int64(len(f.images[img.ProductID]))
	return nil
}

type fakeAddressRepo struct {
	addresses map[int64]*address.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[int64]*address.Address)}
}

func (f *fakeAddressRepo) GetByID(_ context.Context, id int64) (*address.Address, error) {
	a, ok := f.addresses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAddressRepo) ListByCustomer(_ context.Context, customerID int64) ([]*address.Address, error) {
	out := make([]*address.Address, 0)
	for id := int64(1); id <= int64(len(f.addresses)); id++ {
		if a, ok := f.addresses[id]; ok && a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) Create(_ context.Context, a *address.Address) error {
	if a.ID == 0 {
		a.ID = int64(len(f.addresses) + 1)
	}
	f.addresses[a.ID] = a
	return nil
}

func (f *fakeAddressRepo) Update(_ context.Context, a *address.Address) error {
	if _, ok := f.addresses[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.addresses[a.ID] = a
	return nil
}

func (f *fakeAddressRepo) Delete(_ context.Context, id int64) error {
	delete(f.addresses, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[int64]*customer.Customer
	contacts  map[int64]*customer.Contact
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: make(map[int64]*customer.Customer),
		contacts:  make(map[int64]*customer.Contact),
	}
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*customer.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	if c.ID == 0 {
		c.ID = int64(len(f.customers) + 1)
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(_ context.Context, limit, offset int) ([]*customer.Customer, error) {
	out := make([]*customer.Customer, 0, len(f.customers))
	for id := int64(1); id <= int64(len(f.customers)); id++ {
		if c, ok := f.customers[id]; ok {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCustomerRepo) Count(context.Context) (int64, error) {
	return int64(len(f.customers)), nil
}

func (f *fakeCustomerRepo) GetContact(_ context.Context, customerID int64) (*customer.Contact, error) {
	ct, ok := f.contacts[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ct, nil
}

func (f *fakeCustomerRepo) CreateContact(_ context.Context, ct *customer.Contact) error {
	f.contacts[ct.CustomerID] = ct
	return nil
}

func (f *fakeCustomerRepo) UpdatePhone(_ context.Context, customerID int64, phone string) error {
	ct, ok := f.contacts[customerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ct.PhoneNumber = phone
	return nil
}

type fakeAdminRepo struct {
	admins map[int64]*administrator.Administrator
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[int64]*administrator.Administrator)}
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id int64) (*administrator.Administrator, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*administrator.Administrator, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminRepo) Create(_ context.Context, a *administrator.Administrator) error {
	if a.ID == 0 {
		a.ID = int64(len(f.admins) + 1)
	}
	f.admins[a.ID] = a
	return nil
}

func (f *fakeAdminRepo) Update(_ context.Context, a *administrator.Administrator) error {
	if _, ok := f.admins[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.admins[a.ID] = a
	return nil
}

func (f *fakeAdminRepo) Delete(_ context.Context, id int64) error {
	delete(f.admins, id)
	return nil
}

type fakePaymentRepo struct {
	records map[int64]*payment.Record
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{records: make(map[int64]*payment.Record)}
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id int64) (*payment.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, r *payment.Record) error {
	if r.ID == 0 {
		r.ID = int64(len(f.records) + 1)
	}
	f.records[r.ID] = r
	return nil
}
