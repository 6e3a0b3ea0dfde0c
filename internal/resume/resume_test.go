package resume

import (
	"testing"

	"prepscore/internal/lexicon"
	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567

Summary
Backend engineer focused on reliable payment systems.

Experience
Senior Software Engineer at Acme Corp, 2021-2024
- Led migration of billing services to Kubernetes, reducing costs by 30%.
- Developed a fraud detection API in Go serving 2 million users.
Software Engineer | Globex LLC | 2018 - 2021
- Improved checkout latency by 40%.

Projects
Ledger Sync
Open source tool that reconciles bank exports.
Built with Python and PostgreSQL.

Chess Engine
Bitboard move generator written in Rust

Skills
Go, Python, PostgreSQL, Docker, Kubernetes, AWS, Git

Education
B.S. Computer Science, State University, 2018`

func TestExtractResumeInformation(t *testing.T) {
	info := ExtractResumeInformation(lexicon.Default(), sampleResume)

	assert.Equal(t, []string{"python", "git", "aws", "docker", "kubernetes", "api", "rust", "postgresql"}, info.Skills)
	assert.Equal(t, []string{"Acme", "Globex"}, info.Companies)
	assert.Equal(t, []string{"Senior Software Engineer", "Software Engineer"}, info.JobTitles)
	assert.Equal(t, []types.Project{
		{Name: "Ledger Sync", Description: "Open source tool that reconciles bank exports. Built with Python and PostgreSQL."},
		{Name: "Chess Engine", Description: "Bitboard move generator written in Rust"},
	}, info.Projects)
	assert.Equal(t, []string{"B.S. Computer Science, State University, 2018"}, info.Education)
	assert.Equal(t, []string{
		"Led migration of billing services to Kubernetes, reducing costs by 30%.",
		"Developed a fraud detection API in Go serving 2 million users.",
		"Improved checkout latency by 40%.",
	}, info.Achievements)
}

func TestAchievementRequiresVerbAndQuantity(t *testing.T) {
	text := "• Increased sales by 20%\n* Sales grew a lot\n- Responsible for 40% of revenue\n> Increased sales by 20%"
	info := ExtractResumeInformation(lexicon.Default(), text)
	assert.Equal(t, []string{"Increased sales by 20%"}, info.Achievements)
}

func TestExtractCaps(t *testing.T) {
	text := `Experience
Engineer at Alpha Inc.
Engineer at Beta Ltd
Engineer at Gamma Co.
Engineer at Delta Corporation
- Increased revenue by 10%
- Increased revenue by 11%
- Increased revenue by 12%
- Increased revenue by 13%
- Increased revenue by 14%
- Increased revenue by 15%`

	info := ExtractResumeInformation(lexicon.Default(), text)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, info.Companies)
	assert.Len(t, info.JobTitles, 1, "identical titles are deduplicated")
	assert.Len(t, info.Achievements, 5)
}

func TestCompanySkipsDatesAndLongNames(t *testing.T) {
	got := companies("Team Lead - 2019\nConsultant at a very large multinational professional services organization with many offices\nAnalyst at Initech (contract)")
	assert.Equal(t, []string{"Initech"}, got)
}

func TestCompanySkipsDateRanges(t *testing.T) {
	text := `Experience
Senior Software Engineer at Acme Corp., Berlin
Jan 2019 - Present
Software Engineer | Globex Inc
March 2016 - Dec 2018
Intern at Initech
2015 - Summer 2015`

	info := ExtractResumeInformation(lexicon.Default(), text)
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, info.Companies)
}

func TestCompaniesRequireExperienceSection(t *testing.T) {
	text := "Jane Doe\njane@example.com | (555) 123-4567\nSenior Engineer at Acme"
	info := ExtractResumeInformation(lexicon.Default(), text)
	assert.Empty(t, info.Companies)
	assert.Equal(t, []string{"Senior Engineer"}, info.JobTitles)
}

func TestEmptyResumeHasEmptySlices(t *testing.T) {
	info := ExtractResumeInformation(lexicon.Default(), "")
	assert.NotNil(t, info.Skills)
	assert.NotNil(t, info.Companies)
	assert.NotNil(t, info.JobTitles)
	assert.NotNil(t, info.Projects)
	assert.NotNil(t, info.Education)
	assert.NotNil(t, info.Achievements)
	assert.Empty(t, info.Skills)
}

type fixedSegmenter map[string]string

func (f fixedSegmenter) FindSection(_ string, headers []string) string {
	if len(headers) == 0 {
		return ""
	}
	return f[headers[0]]
}

func TestExtractorUsesSegmenter(t *testing.T) {
	seg := fixedSegmenter{"projects": "Tiny Tool\nDoes one thing well."}
	ex := NewExtractor(lexicon.Default(), seg)

	info := ex.Extract("nothing recognizable here")
	require.Len(t, info.Projects, 1)
	assert.Equal(t, "Tiny Tool", info.Projects[0].Name)
	assert.Equal(t, "Tiny Tool\nDoes one thing well.", ex.Section("ignored", lexicon.SectionProjects))
}

func TestStripBullet(t *testing.T) {
	for _, in := range []string{"• item", "* item", "- item", "> item", "  –  item", "item"} {
		assert.Equal(t, "item", StripBullet(in), in)
	}
}
