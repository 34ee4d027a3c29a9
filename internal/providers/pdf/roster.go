package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/clubhouse/pkg/textsafe"
)

// RosterData lists the committed registrations of one event.
type RosterData struct {
	Organization string
	EventTitle   string
	EventDate    string
	GeneratedAt  time.Time
	Rows         []RosterRow
}

type RosterRow struct {
	RegistrationCode string
	Name             string
	School           string
	Email            string
	ParentsPhone     string
	RegisteredAt     time.Time
}

// RenderRoster builds a paginated attendee table. Unlike the certificate it
// is allowed to span pages, so it uses the row-flow engine.
func (p *PDFProvider) RenderRoster(ctx context.Context, roster RosterData) (*Document, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, textsafe.Line(roster.EventTitle), props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	generated := roster.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	m.AddRow(14,
		col.New(8).Add(
			text.New(textsafe.Line(roster.Organization), props.Text{Top: 0, Size: 9}),
			text.New("Date: "+textsafe.Line(roster.EventDate), props.Text{Top: 5, Size: 9}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d registrations", len(roster.Rows)), props.Text{Size: 9, Align: align.Right}),
			text.New("Generated "+generated.UTC().Format("02 Jan 2006 15:04"), props.Text{Top: 5, Size: 9, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(1, "#", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Registration ID", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Name", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "School", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Parent's Phone", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for i, row := range roster.Rows {
		m.AddRow(8,
			text.NewCol(1, fmt.Sprintf("%d", i+1), props.Text{Size: 8}),
			text.NewCol(3, textsafe.Line(row.RegistrationCode), props.Text{Size: 8}),
			text.NewCol(3, truncateAt(textsafe.Line(row.Name), 40), props.Text{Size: 8}),
			text.NewCol(3, truncateAt(textsafe.Line(row.School), 40), props.Text{Size: 8}),
			text.NewCol(2, textsafe.Line(row.ParentsPhone), props.Text{Size: 8, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: roster: %v", ErrRender, err)
	}

	// The row-flow engine does not report a page count.
	return &Document{Bytes: doc.GetBytes()}, nil
}
