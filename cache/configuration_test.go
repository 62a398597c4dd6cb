package cache

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/goliatone/go-graph-cache/pkg/accessor"
	"github.com/goliatone/go-graph-cache/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	personType = reflect.TypeOf(testsupport.Person{})
	cityType   = reflect.TypeOf(testsupport.City{})
)

// stubConvention delegates to the configured functions.
type stubConvention struct {
	fit    func(reflect.Type) (bool, error)
	create func(reflect.Type) (KeyExtractor, error)
	fits   int
}

func (s *stubConvention) FitInConvention(t reflect.Type) (bool, error) {
	s.fits++
	return s.fit(t)
}

func (s *stubConvention) CreateKeyExtractor(t reflect.Type) (KeyExtractor, error) {
	return s.create(t)
}

func newConfiguration(t *testing.T, opts ...ConfigurationOption) *Configuration {
	t.Helper()

	cfg, err := NewConfiguration(accessor.NewRegistry(), opts...)
	require.NoError(t, err)
	return cfg
}

func personKey(p *testsupport.Person) (string, error) {
	return strconv.Itoa(p.ID), nil
}

func TestNewConfiguration_NullArguments(t *testing.T) {
	_, err := NewConfiguration(nil)
	assert.ErrorIs(t, err, ErrNullArgument)

	_, err = NewConfiguration(accessor.NewRegistry(), WithConvention(nil))
	assert.ErrorIs(t, err, ErrNullArgument)
}

func TestConfiguration_ConfigureType(t *testing.T) {
	cfg := newConfiguration(t, WithoutConventions())
	assert.False(t, cfg.ConventionsEnabled())

	require.NoError(t, ConfigureType(cfg, personKey))

	ok, err := cfg.Contains(personType)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cfg.Contains(reflect.PointerTo(personType))
	require.NoError(t, err)
	assert.True(t, ok, "pointer and value types share the registration")
}

func TestConfiguration_ConfigureType_NullArguments(t *testing.T) {
	cfg := newConfiguration(t)

	assert.ErrorIs(t, cfg.ConfigureType(nil, func(any) (string, error) { return "", nil }), ErrNullArgument)
	assert.ErrorIs(t, cfg.ConfigureType(personType, nil), ErrNullArgument)
	assert.ErrorIs(t, ConfigureType[*testsupport.Person](nil, personKey), ErrNullArgument)
	assert.ErrorIs(t, ConfigureType[*testsupport.Person](cfg, nil), ErrNullArgument)
}

func TestConfiguration_Contains_WhenNotContains(t *testing.T) {
	cfg := newConfiguration(t, WithoutConventions())

	ok, err := cfg.Contains(personType)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfiguration_KeyExtractor(t *testing.T) {
	tests := []struct {
		name      string
		opts      []ConfigurationOption
		configure bool
		typ       reflect.Type
		value     any
		want      string
		wantErr   error
	}{
		{
			name:      "mapped type with conventions disabled",
			opts:      []ConfigurationOption{WithoutConventions()},
			configure: true,
			typ:       personType,
			value:     &testsupport.Person{ID: 1},
			want:      "1",
		},
		{
			name:    "unmapped type with conventions disabled",
			opts:    []ConfigurationOption{WithoutConventions()},
			typ:     personType,
			wantErr: ErrTypeNotMapped,
		},
		{
			name:  "default convention",
			typ:   personType,
			value: &testsupport.Person{ID: 1},
			want:  "1",
		},
		{
			name:    "type does not fit the default convention",
			typ:     cityType,
			wantErr: ErrTypeNotFitInConvention,
		},
		{
			name:  "custom convention",
			opts:  []ConfigurationOption{WithConvention(NewFieldConvention(accessor.NewRegistry(), "PopulationCount"))},
			typ:   cityType,
			value: testsupport.City{Name: "city", PopulationCount: 12345},
			want:  "12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfiguration(t, tt.opts...)
			if tt.configure {
				require.NoError(t, ConfigureType(cfg, personKey))
			}

			extractor, err := cfg.KeyExtractor(tt.typ)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var typeErr *TypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, tt.typ, typeErr.Type)
				return
			}
			require.NoError(t, err)

			key, err := extractor(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestConfiguration_ConventionExtractorIsMemoized(t *testing.T) {
	created := 0
	stub := &stubConvention{
		fit: func(reflect.Type) (bool, error) { return true, nil },
		create: func(reflect.Type) (KeyExtractor, error) {
			created++
			return func(any) (string, error) { return "stub", nil }, nil
		},
	}
	cfg := newConfiguration(t, WithConvention(stub))

	for i := 0; i < 3; i++ {
		_, err := cfg.KeyExtractor(cityType)
		require.NoError(t, err)
		_, err = cfg.Contains(cityType)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, 1, stub.fits)
}

func TestConfiguration_ExplicitRegistrationOverridesConvention(t *testing.T) {
	cfg := newConfiguration(t)

	extractor, err := cfg.KeyExtractor(personType)
	require.NoError(t, err)
	key, err := extractor(&testsupport.Person{ID: 1, Name: "ana"})
	require.NoError(t, err)
	require.Equal(t, "1", key)

	require.NoError(t, ConfigureType(cfg, func(p *testsupport.Person) (string, error) { return p.Name, nil }))

	extractor, err = cfg.KeyExtractor(personType)
	require.NoError(t, err)
	key, err = extractor(&testsupport.Person{ID: 1, Name: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana", key)
}

func TestConfiguration_ConventionFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		stub   *stubConvention
		call   func(*Configuration) error
		wantOp ConventionOp
	}{
		{
			name: "contains when fit panics",
			stub: &stubConvention{fit: func(reflect.Type) (bool, error) { panic("fit") }},
			call: func(cfg *Configuration) error {
				_, err := cfg.Contains(cityType)
				return err
			},
			wantOp: OpFitInConvention,
		},
		{
			name: "key extractor when fit returns an error",
			stub: &stubConvention{fit: func(reflect.Type) (bool, error) { return false, boom }},
			call: func(cfg *Configuration) error {
				_, err := cfg.KeyExtractor(cityType)
				return err
			},
			wantOp: OpFitInConvention,
		},
		{
			name: "key extractor when create panics",
			stub: &stubConvention{
				fit:    func(reflect.Type) (bool, error) { return true, nil },
				create: func(reflect.Type) (KeyExtractor, error) { panic(boom) },
			},
			call: func(cfg *Configuration) error {
				_, err := cfg.KeyExtractor(cityType)
				return err
			},
			wantOp: OpCreateKeyExtractor,
		},
		{
			name: "key extractor when create returns nil",
			stub: &stubConvention{
				fit:    func(reflect.Type) (bool, error) { return true, nil },
				create: func(reflect.Type) (KeyExtractor, error) { return nil, nil },
			},
			call: func(cfg *Configuration) error {
				_, err := cfg.KeyExtractor(cityType)
				return err
			},
			wantOp: OpCreateKeyExtractor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfiguration(t, WithConvention(tt.stub))

			err := tt.call(cfg)

			assert.ErrorIs(t, err, ErrConventionFailure)
			var convErr *ConventionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, tt.wantOp, convErr.Op)
			assert.Contains(t, err.Error(), string(tt.wantOp))
		})
	}
}

func TestConfiguration_MalformedConvention(t *testing.T) {
	registry := accessor.NewRegistry()
	malformed := &stubConvention{
		fit: func(reflect.Type) (bool, error) { return true, nil },
		create: func(t reflect.Type) (KeyExtractor, error) {
			_, err := registry.GetOrCreate(t, "NotExistentProperty")
			return nil, err
		},
	}
	cfg, err := NewConfiguration(registry, WithConvention(malformed))
	require.NoError(t, err)

	_, err = cfg.KeyExtractor(cityType)

	assert.ErrorIs(t, err, ErrConventionFailure)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestAs(t *testing.T) {
	p := &testsupport.Person{ID: 1}

	v, ok := As[testsupport.Person](p)
	require.True(t, ok)
	assert.Equal(t, *p, v)

	ptr, ok := As[*testsupport.Person](testsupport.Person{ID: 2})
	require.True(t, ok)
	assert.Equal(t, 2, ptr.ID)

	_, ok = As[*testsupport.Book](p)
	assert.False(t, ok)

	_, ok = As[testsupport.Person](nil)
	assert.False(t, ok)
}
