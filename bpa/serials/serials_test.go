package serials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/fleetops/bpa-app/log"
)

type SerialsTestSuite struct {
	suite.Suite
	loader *LocalLoader
}

func TestSerialsTestSuite(t *testing.T) {
	suite.Run(t, new(SerialsTestSuite))
}

func (s *SerialsTestSuite) SetupTest() {
	s.loader = &LocalLoader{Logger: log.Audit}
}

func (s *SerialsTestSuite) writeList(content string) string {
	path := filepath.Join(s.T().TempDir(), "serials.txt")
	assert.NoError(s.T(), os.WriteFile(path, []byte(content), 0600))
	return path
}

func (s *SerialsTestSuite) TestLoadSerials() {
	path := s.writeList("0040103CA2B0\n18B1690729A8\nC0EAE4501234\n")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"0040103CA2B0", "18B1690729A8", "C0EAE4501234"}, list)
}

func (s *SerialsTestSuite) TestLoadSerialsKeepsLeadingZeros() {
	path := s.writeList("00123456\n")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"00123456"}, list)
}

func (s *SerialsTestSuite) TestLoadSerialsKeepsBlankLines() {
	path := s.writeList("0040103CA2B0\n\n18B1690729A8\n")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"0040103CA2B0", "", "18B1690729A8"}, list)
}

func (s *SerialsTestSuite) TestLoadSerialsCRLF() {
	path := s.writeList("0040103CA2B0\r\n18B1690729A8\r\n")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"0040103CA2B0", "18B1690729A8"}, list)
}

func (s *SerialsTestSuite) TestLoadSerialsSkipsByteOrderMark() {
	path := s.writeList("\xEF\xBB\xBF0040103CA2B0\n18B1690729A8\n")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"0040103CA2B0", "18B1690729A8"}, list)
}

func (s *SerialsTestSuite) TestLoadSerialsEmptyFile() {
	path := s.writeList("")

	list, err := s.loader.LoadSerials(context.Background(), path)
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *SerialsTestSuite) TestLoadSerialsMissingFile() {
	list, err := s.loader.LoadSerials(context.Background(), filepath.Join(s.T().TempDir(), "nope.txt"))
	assert.Error(s.T(), err)
	assert.Nil(s.T(), list)
	assert.Contains(s.T(), err.Error(), "could not read serial list")
}

func (s *SerialsTestSuite) TestNewLoader() {
	loader := NewLoader("serials.txt")
	assert.IsType(s.T(), &LocalLoader{}, loader)

	loader = NewLoader("s3://fleet-lists/prod/serials.txt")
	assert.IsType(s.T(), &S3Loader{}, loader)
}
