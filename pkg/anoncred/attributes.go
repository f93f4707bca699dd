/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncred

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/slices"
)

const (
	birthdateLayout      = "2006-01-02"
	accumulatorRefLength = 16
)

// Credit categories, lowest first.
const (
	CreditPoor      = "poor"
	CreditFair      = "fair"
	CreditGood      = "good"
	CreditExcellent = "excellent"
)

// nolint:gochecknoglobals
var creditCategories = []struct {
	name string
	max  int
}{
	{name: CreditPoor, max: 300},
	{name: CreditFair, max: 600},
	{name: CreditGood, max: 800},
}

// CreditCategory buckets a credit score.
func CreditCategory(score int) (string, error) {
	if score < 0 {
		return "", errors.Wrapf(ErrInvalidCreditScore, "score %d", score)
	}

	for _, c := range creditCategories {
		if score <= c.max {
			return c.name, nil
		}
	}

	return CreditExcellent, nil
}

// CreditCategoryAtLeast returns a policy expression accepting category and every better one.
func CreditCategoryAtLeast(category string) (string, error) {
	all := []string{CreditPoor, CreditFair, CreditGood, CreditExcellent}

	for i, c := range all {
		if c != category {
			continue
		}

		quoted := make([]string, 0, len(all)-i)
		for _, better := range all[i:] {
			quoted = append(quoted, strconv.Quote(better))
		}

		return fmt.Sprintf("$.%s in [%s]", AttrCreditCategory, strings.Join(quoted, ", ")), nil
	}

	return "", errors.Errorf("unknown credit category %q", category)
}

// AgeAtLeast returns a policy expression requiring the disclosed age to be at least years.
func AgeAtLeast(years int) string {
	return fmt.Sprintf("$.%s >= %d", AttrAge, years)
}

// AnonID derives the holder's pseudonymous id from identity. The blake2b-256 digest of identity seeds an
// ed25519 key whose hex public key is the id.
func AnonID(identity string) (string, ed25519.PrivateKey) {
	seed := blake2b.Sum256([]byte(identity))
	key := ed25519.NewKeyFromSeed(seed[:])

	return hex.EncodeToString(key.Public().(ed25519.PublicKey)), key
}

// IssueRequest carries the verified identity data an issuer turns into a credential.
type IssueRequest struct {
	Name        string `mapstructure:"name"`
	Surname     string `mapstructure:"surname"`
	Birthdate   string `mapstructure:"birthdate"`
	Location    string `mapstructure:"location"`
	SSN         string `mapstructure:"ssn"`
	CreditScore int    `mapstructure:"creditScore"`
}

// DecodeIssueRequest reads an IssueRequest from a loosely typed map, such as decoded JSON. Numbers given as
// strings are accepted, unknown keys are not.
func DecodeIssueRequest(raw map[string]interface{}) (*IssueRequest, error) {
	var req IssueRequest

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &req,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new request decoder")
	}

	if err = decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decode issue request")
	}

	return &req, nil
}

// Identity is the string the anon id is derived from.
func (r *IssueRequest) Identity() string {
	return strings.Join([]string{r.Name, r.Surname, r.Birthdate, r.Location, r.SSN}, ":")
}

func (r *IssueRequest) validate() error {
	missing := make([]string, 0)

	for name, v := range map[string]string{
		"name":      r.Name,
		"surname":   r.Surname,
		"birthdate": r.Birthdate,
		"location":  r.Location,
		"ssn":       r.SSN,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)

		return errors.Errorf("missing fields in issue request: %v", missing)
	}

	return nil
}

// age returns the completed years between the birthdate and now.
func age(birthdate string, now time.Time) (int, error) {
	born, err := time.Parse(birthdateLayout, birthdate)
	if err != nil {
		return 0, errors.Wrap(err, "parse birthdate")
	}

	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}

	if years < 0 {
		return 0, errors.Errorf("birthdate %s is in the future", birthdate)
	}

	return years, nil
}

// blake2bHex is the hex blake2b-256 digest of s, as kept in the hashed identity attributes.
func blake2bHex(s string) string {
	sum := blake2b.Sum256([]byte(s))

	return hex.EncodeToString(sum[:])
}

// accumulatorRef commits to the exact score without carrying it in the clear.
func accumulatorRef(score int, anonID string) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("credit_accumulator_%d_%s", score, anonID)))

	return hex.EncodeToString(sum[:])[:accumulatorRefLength]
}
