package profile

import (
	"os"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"gopkg.in/vmihailenco/msgpack.v2"
)

const (
	coverageBucket  = "coverage"
	diversityBucket = "diversity"
	variantBucket   = "variants"
	infoBucket      = "info"
	datasetBucket   = "datasets"

	infoKey = "run_info"
)

var storeBuckets = []string{coverageBucket, diversityBucket, variantBucket, infoBucket, datasetBucket}

// Store is a handle to one profiling run's keyed tables.
type Store struct {
	db *bolt.DB
}

// Create makes an empty store at path, overwriting any existing file.
func Create(path string) (*Store, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "profile: create %s", path)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "profile: create %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range storeBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrapf(err, "profile: create %s", path)
	}
	return &Store{db: db}, nil
}

// Open opens an existing store.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "profile: open %s", path)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "profile: open %s", path)
	}
	err = db.View(func(tx *bolt.Tx) error {
		for _, name := range storeBuckets {
			if tx.Bucket([]byte(name)) == nil {
				return errors.Errorf("missing bucket %q", name)
			}
		}
		return nil
	})
	if err != nil {
		db.Close() // nolint: errcheck
		return nil, errors.Wrapf(err, "profile: %s is not a profile store", path)
	}
	return &Store{db: db}, nil
}

// Close releases the backing database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(bucket, key string, v interface{}) error {
	value, err := msgpack.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "profile: encode %s/%s", bucket, key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), value)
	})
	return errors.Wrapf(err, "profile: write %s/%s", bucket, key)
}

// get decodes bucket/key into out, reporting whether the key exists.
func (s *Store) get(bucket, key string, out interface{}) (bool, error) {
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return msgpack.Unmarshal(v, out)
	})
	if err != nil {
		return false, errors.Wrapf(err, "profile: read %s/%s", bucket, key)
	}
	return found, nil
}

// PutCoverage stores one scaffold's depth-by-threshold profile.
func (s *Store) PutCoverage(scaffold string, p CoverageProfile) error {
	return s.put(coverageBucket, scaffold, p)
}

// Coverage returns one scaffold's depth-by-threshold profile, or nil if the
// scaffold was never profiled.
func (s *Store) Coverage(scaffold string) (CoverageProfile, error) {
	var p CoverageProfile
	found, err := s.get(coverageBucket, scaffold, &p)
	if err != nil || !found {
		return nil, err
	}
	return p, nil
}

// PutDiversity stores one scaffold's clonality-by-threshold profile.
func (s *Store) PutDiversity(scaffold string, p DiversityProfile) error {
	return s.put(diversityBucket, scaffold, p)
}

// Diversity returns one scaffold's clonality-by-threshold profile, or nil if
// absent.
func (s *Store) Diversity(scaffold string) (DiversityProfile, error) {
	var p DiversityProfile
	found, err := s.get(diversityBucket, scaffold, &p)
	if err != nil || !found {
		return nil, err
	}
	return p, nil
}

// PutVariants stores one scaffold's slice of the cumulative variant table.
func (s *Store) PutVariants(scaffold string, recs []VariantRecord) error {
	return s.put(variantBucket, scaffold, recs)
}

// Variants returns the cumulative variant table across all scaffolds,
// stably sorted by ascending mismatch threshold.
func (s *Store) Variants() ([]VariantRecord, error) {
	var all []VariantRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(variantBucket)).ForEach(func(k, v []byte) error {
			var recs []VariantRecord
			if err := msgpack.Unmarshal(v, &recs); err != nil {
				return errors.Wrapf(err, "scaffold %s", string(k))
			}
			all = append(all, recs...)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "profile: read variant table")
	}
	SortByMM(all)
	return all, nil
}

// Scaffolds returns the names of all scaffolds with a coverage profile, in
// lexical order.
func (s *Store) Scaffolds() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(coverageBucket)).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "profile: list scaffolds")
	}
	return names, nil
}

// PutInfo stores the run metadata block.
func (s *Store) PutInfo(info RunInfo) error {
	return s.put(infoBucket, infoKey, info)
}

// Info returns the run metadata block; a store without one is malformed.
func (s *Store) Info() (RunInfo, error) {
	var info RunInfo
	found, err := s.get(infoBucket, infoKey, &info)
	if err != nil {
		return RunInfo{}, err
	}
	if !found {
		return RunInfo{}, errors.New("profile: store has no run info")
	}
	return info, nil
}

// PutDataset stores an arbitrary msgpack-encodable table under name, so
// callers can persist derived results next to the inputs they came from.
func (s *Store) PutDataset(name string, v interface{}) error {
	return s.put(datasetBucket, name, v)
}

// Dataset decodes the named table into out, reporting whether it exists.
func (s *Store) Dataset(name string, out interface{}) (bool, error) {
	return s.get(datasetBucket, name, out)
}
