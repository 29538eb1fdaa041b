package resource_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	"github.com/frahmantamala/childcare-management/internal/resource"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestResource(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resource Suite")
}

type recordingRecorder struct {
	mu      sync.Mutex
	entries []auditlog.Entry
}

func (r *recordingRecorder) Record(_ context.Context, entry auditlog.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type stubRepository struct {
	rows     map[int64]resource.Row
	nextID   int64
	inserted resource.Values
	err      error
}

func newStubRepository() *stubRepository {
	return &stubRepository{rows: map[int64]resource.Row{}, nextID: 1}
}

func (s *stubRepository) List(context.Context, string) ([]resource.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []resource.Row
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRepository) Get(_ context.Context, _ string, id int64) (resource.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[id], nil
}

func (s *stubRepository) Insert(_ context.Context, _ string, values resource.Values) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	id := s.nextID
	s.nextID++
	s.inserted = values
	row := resource.Row{"id": id}
	for k, v := range values {
		row[k] = v
	}
	s.rows[id] = row
	return id, nil
}

func (s *stubRepository) Update(_ context.Context, _ string, id int64, values resource.Values) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	for k, v := range values {
		row[k] = v
	}
	return 1, nil
}

func (s *stubRepository) Delete(_ context.Context, _ string, id int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func decode(raw string) map[string]interface{} {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]interface{}
	Expect(dec.Decode(&out)).To(Succeed())
	return out
}

var _ = Describe("NormalizeValues", func() {
	It("should drop the actor field and the id column", func() {
		values, err := resource.NormalizeValues(decode(`{"userId":1,"id":9,"name":"Ana"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal(resource.Values{"name": "Ana"}))
	})

	It("should narrow JSON numbers", func() {
		values, err := resource.NormalizeValues(decode(`{"quantity":3,"weight":2.5}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(values["quantity"]).To(Equal(int64(3)))
		Expect(values["weight"]).To(Equal(2.5))
	})

	It("should store nested values as JSON text", func() {
		values, err := resource.NormalizeValues(decode(`{"tags":["a","b"]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(values["tags"]).To(Equal(`["a","b"]`))
	})

	It("should reject column names that are not identifiers", func() {
		_, err := resource.NormalizeValues(decode(`{"name; DROP TABLE staffs":"x"}`))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("should reject a body with nothing to write", func() {
		_, err := resource.NormalizeValues(decode(`{"userId":1}`))
		Expect(errors.Is(err, internal.ErrEmptyPayload)).To(BeTrue())
	})

	It("should order columns", func() {
		Expect(resource.Values{"b": 1, "a": 2}.Columns()).To(Equal([]string{"a", "b"}))
	})
})

var _ = Describe("Registry", func() {
	registry := resource.DefaultRegistry(bcrypt.MinCost)

	DescribeTable("generic allow-list",
		func(name string, routable bool) {
			_, ok := registry.LookupGeneric(name)
			Expect(ok).To(Equal(routable))
		},
		Entry("children", "children", true),
		Entry("events", "events", true),
		Entry("appointments", "appointments", true),
		Entry("volunteers", "volunteers", true),
		Entry("staffs", "staffs", true),
		Entry("food", "food", true),
		Entry("hygiene", "hygiene", true),
		Entry("school", "school", true),
		Entry("donations stays on its fixed route", "donations", false),
		Entry("perms", "perms", false),
		Entry("logs", "logs", false),
		Entry("empty", "", false),
	)

	It("should still resolve fixed resources by name", func() {
		def, ok := registry.Lookup("donations")
		Expect(ok).To(BeTrue())
		Expect(def.Table).To(Equal("donations"))
	})
})

var _ = Describe("Resource Service", func() {
	var (
		repo     *stubRepository
		recorder *recordingRecorder
		service  *resource.Service
		registry *resource.Registry
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newStubRepository()
		recorder = &recordingRecorder{}
		service = resource.NewService(repo, recorder, testutil.DiscardLogger())
		registry = resource.DefaultRegistry(bcrypt.MinCost)
	})

	lookup := func(name string) resource.Definition {
		def, ok := registry.Lookup(name)
		Expect(ok).To(BeTrue())
		return def
	}

	It("should audit a create with the generated id", func() {
		id, err := service.Create(ctx, 5, lookup("children"), decode(`{"userId":5,"name":"Ana"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(recorder.entries).To(HaveLen(1))
		Expect(recorder.entries[0].RecordID).To(Equal(id))
		Expect(recorder.entries[0].UserID).To(Equal(int64(5)))
		Expect(recorder.entries[0].Action).To(Equal(auditlog.ActionCreate))
		Expect(recorder.entries[0].AffectedTable).To(Equal("children"))
	})

	It("should audit update and delete with the path id", func() {
		id, err := service.Create(ctx, 5, lookup("events"), decode(`{"title":"Fair"}`))
		Expect(err).NotTo(HaveOccurred())

		Expect(service.Update(ctx, 5, lookup("events"), id, decode(`{"title":"Spring fair"}`))).To(Succeed())
		Expect(service.Delete(ctx, 5, lookup("events"), id)).To(Succeed())

		Expect(recorder.entries).To(HaveLen(3))
		Expect(recorder.entries[1].Action).To(Equal(auditlog.ActionUpdate))
		Expect(recorder.entries[2].Action).To(Equal(auditlog.ActionDelete))
		Expect(recorder.entries[2].RecordID).To(Equal(id))
		Expect(recorder.entries[2].AffectedTable).To(Equal("events"))
	})

	It("should report a missing row without auditing", func() {
		err := service.Update(ctx, 5, lookup("events"), 42, decode(`{"title":"x"}`))
		Expect(errors.Is(err, internal.ErrRecordNotFound)).To(BeTrue())
		err = service.Delete(ctx, 5, lookup("events"), 42)
		Expect(errors.Is(err, internal.ErrRecordNotFound)).To(BeTrue())
		Expect(recorder.entries).To(BeEmpty())
	})

	It("should hash staff passwords and hide them on read", func() {
		id, err := service.Create(ctx, 5, lookup("staffs"), decode(`{"name":"Ana","email":"ana@example.com","password":"secret-pass"}`))
		Expect(err).NotTo(HaveOccurred())

		stored, ok := repo.inserted["password"].(string)
		Expect(ok).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(stored), []byte("secret-pass"))).To(Succeed())

		row, err := service.Get(ctx, lookup("staffs"), id)
		Expect(err).NotTo(HaveOccurred())
		Expect(row).NotTo(HaveKey("password"))
	})

	It("should surface store failures as internal errors without auditing", func() {
		repo.err = errors.New("relation does not exist")
		_, err := service.Create(ctx, 5, lookup("school"), decode(`{"item_name":"Pencil"}`))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
		Expect(recorder.entries).To(BeEmpty())
	})

	It("should return an empty list rather than nil", func() {
		rows, err := service.List(ctx, lookup("food"))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).NotTo(BeNil())
	})
})
