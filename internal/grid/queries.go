package grid

const titlesQuery = `
query Titles {
  titles { id name }
}`

const teamsQueryBasic = `
query Teams($q: String!) {
  teams(filter: { name: { contains: $q } }) {
    edges { node { id name } }
  }
}`

const teamsQueryExtended = `
query Teams($q: String!) {
  teams(filter: { name: { contains: $q } }) {
    edges { node { id name abbreviation shortName } }
  }
}`

const tournamentsQuery = `
query Tournaments($titleId: ID!, $first: Int!, $after: Cursor) {
  tournaments(
    filter: { title: { id: { in: [$titleId] } } }
    first: $first
    after: $after
  ) {
    totalCount
    edges { cursor node { id name } }
    pageInfo { endCursor hasNextPage }
  }
}`

const allSeriesQuery = `
query AllSeries($tournamentIds: [ID!]!, $gte: String!, $lte: String!, $first: Int!, $after: Cursor) {
  allSeries(
    filter: {
      tournament: { id: { in: $tournamentIds }, includeChildren: { equals: true } }
      startTimeScheduled: { gte: $gte, lte: $lte }
    }
    orderBy: StartTimeScheduled
    first: $first
    after: $after
  ) {
    totalCount
    edges {
      cursor
      node {
        id
        startTimeScheduled
        tournament { id name }
        teams { baseInfo { id name } }
      }
    }
    pageInfo { endCursor hasNextPage }
  }
}`

const seriesStateQueryBasic = `
query SeriesState($id: ID!) {
  seriesState(id: $id) {
    valid
    finished
    startedAt
    teams { id name won score kills deaths }
    games {
      sequenceNumber
      teams {
        id won score kills deaths
        players { id name kills deaths }
      }
    }
  }
}`

// seriesStateQueryCharacter adds the picked character. Not every title's schema
// supports it, so callers fall back to the basic query.
const seriesStateQueryCharacter = `
query SeriesState($id: ID!) {
  seriesState(id: $id) {
    valid
    finished
    startedAt
    teams { id name won score kills deaths }
    games {
      sequenceNumber
      teams {
        id won score kills deaths
        players { id name kills deaths character { id name } }
      }
    }
  }
}`
